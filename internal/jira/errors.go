package jira

import "fmt"

// UpstreamFetchError wraps any failure returned while talking to the tracking service.
type UpstreamFetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// MalformedDurationError reports a duration token that could not be interpreted.
type MalformedDurationError struct {
	Input string
	Token string
}

func (e *MalformedDurationError) Error() string {
	return fmt.Sprintf("malformed duration %q: bad token %q", e.Input, e.Token)
}

// MalformedTimestampError reports a timestamp that matched none of the accepted layouts.
type MalformedTimestampError struct {
	Input string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q", e.Input)
}
