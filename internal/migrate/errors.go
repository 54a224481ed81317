package migrate

import (
	"errors"
	"fmt"
)

// ErrMissingWorkspace is returned when an upgrade targets a directory with
// no recognizable installation. Callers suggest a fresh scaffold.
var ErrMissingWorkspace = errors.New("no skgd workspace found")

// StepError is a filesystem failure inside a step. Summary holds what the
// step had done before failing.
type StepError struct {
	Step    StepID
	Summary *Summary
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// MigrationError reports a run that stopped at Step. Completed holds one
// summary per step that finished; Partial is the failing step's summary.
type MigrationError struct {
	Step      StepID
	Index     int
	Completed []*Summary
	Partial   *Summary
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration failed at step %d (%s): %v", e.Index+1, e.Step, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }
