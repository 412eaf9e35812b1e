package httpapi

import (
	_ "embed"
	"errors"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed assets/index.html
var indexHTML []byte

//go:embed assets/dashboard.js
var dashboardSource string

// minifiedDashboard compiles the embedded dashboard script once per router.
func minifiedDashboard() ([]byte, error) {
	result := api.Transform(dashboardSource, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2017,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return nil, errors.New("minify dashboard: " + strings.Join(msgs, "; "))
	}
	return result.Code, nil
}
