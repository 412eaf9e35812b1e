package stats

import "strings"

// StatusSet is a case-insensitive set of status names.
type StatusSet []string

// Contains reports whether status is a member, ignoring case and surrounding space.
func (s StatusSet) Contains(status string) bool {
	status = strings.TrimSpace(status)
	for _, member := range s {
		if strings.EqualFold(member, status) {
			return true
		}
	}
	return false
}

// Terminal status sets, one per aggregator.
var (
	VelocityDoneStatuses   = StatusSet{"Done", "Closed", "For Release"}
	CompletionTimeStatuses = StatusSet{"Done", "Closed", "For Release"}
	BurndownDoneStatuses   = StatusSet{"Done", "For Release"}
	EstimationStatuses     = StatusSet{"CODE REVIEW", "For Release", "Done"}
	DeveloperDoneStatuses  = StatusSet{"Done", "For Release", "CODE REVIEW"}
	ResolvedStatuses       = StatusSet{"Done", "Closed", "For Release"}
)

// Issue types the aggregators distinguish.
const (
	TypeStory   = "Story"
	TypeTask    = "Task"
	TypeBug     = "Bug"
	TypeSupport = "Support"
)

var estimableTypes = StatusSet{TypeStory, TypeTask}

// Phases used by the time distribution.
const (
	PhasePlanning    = "planning"
	PhaseDevelopment = "development"
	PhaseReview      = "review"
	PhaseCompleted   = "completed"
	PhaseOther       = "other"
)

var phaseTable = map[string]string{
	"to do":                    PhasePlanning,
	"backlog":                  PhasePlanning,
	"open":                     PhasePlanning,
	"selected for development": PhasePlanning,
	"ready":                    PhasePlanning,
	"in progress":              PhaseDevelopment,
	"in development":           PhaseDevelopment,
	"doing":                    PhaseDevelopment,
	"code review":              PhaseReview,
	"in review":                PhaseReview,
	"review":                   PhaseReview,
	"qa":                       PhaseReview,
	"testing":                  PhaseReview,
	"done":                     PhaseCompleted,
	"closed":                   PhaseCompleted,
	"for release":              PhaseCompleted,
	"resolved":                 PhaseCompleted,
}

// PhaseOf maps a status name to its coarse phase bucket.
func PhaseOf(status string) string {
	if phase, ok := phaseTable[strings.ToLower(strings.TrimSpace(status))]; ok {
		return phase
	}
	return PhaseOther
}
