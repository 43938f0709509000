package progression

import "fmt"

// ProgressLoadError is a failed read of the learner's completion records.
// Callers recover by treating the learner as having no progress and surface
// a non-blocking warning.
type ProgressLoadError struct {
	LearnerID string
	PathID    string
	Err       error
}

func (e *ProgressLoadError) Error() string {
	return fmt.Sprintf("load progress for learner %s on path %s: %v", e.LearnerID, e.PathID, e.Err)
}

func (e *ProgressLoadError) Unwrap() error { return e.Err }

// ProgressSaveError is a failed write of a completion record. It is always
// surfaced and blocks the auto-advance so the learner can retry.
type ProgressSaveError struct {
	LearnerID string
	PathID    string
	ModuleID  string
	Err       error
}

func (e *ProgressSaveError) Error() string {
	return fmt.Sprintf("save completion of module %s for learner %s on path %s: %v", e.ModuleID, e.LearnerID, e.PathID, e.Err)
}

func (e *ProgressSaveError) Unwrap() error { return e.Err }

// InvalidSelectionError is a request that references something outside the
// current tree or a transition from a state that does not support it. The
// navigator's state is unchanged when it is returned.
type InvalidSelectionError struct {
	Op     string
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s: %s", e.Op, e.Reason)
}

func invalid(op, format string, args ...interface{}) *InvalidSelectionError {
	return &InvalidSelectionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
