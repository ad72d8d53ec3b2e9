package reconcile

import (
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Reason classifies why a step did not apply.
type Reason string

const (
	// ReasonSkipped means the descriptor value was blank and the step chose
	// not to overwrite the scene with it.
	ReasonSkipped Reason = "skipped"
	// ReasonNotAvailable means the descriptor carries nothing for the step.
	ReasonNotAvailable Reason = "not_available"
	// ReasonNotFound means a catalog lookup the step depends on came back empty.
	ReasonNotFound Reason = "not_found"
	// ReasonIO means a filesystem operation failed.
	ReasonIO Reason = "io"
	// ReasonPrecondition means an entity lacked something the write needs.
	ReasonPrecondition Reason = "precondition"
	// ReasonIntegrity means a constraint rejected the write.
	ReasonIntegrity Reason = "integrity_conflict"
)

// StepError is a recorded, non-fatal step failure. Any other error returned by
// a step aborts the whole run.
type StepError struct {
	Reason Reason
	Err    error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return string(e.Reason) + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func fail(reason Reason, format string, args ...interface{}) *StepError {
	return &StepError{Reason: reason, Err: errors.Errorf(format, args...)}
}

type StepResult struct {
	Name string
	// Err is nil when the step applied.
	Err *StepError
}

func (r StepResult) OK() bool {
	return r.Err == nil
}

func (r StepResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Name   string `json:"name"`
		OK     bool   `json:"ok"`
		Reason Reason `json:"reason,omitempty"`
		Error  string `json:"error,omitempty"`
	}{Name: r.Name, OK: r.OK()}
	if r.Err != nil {
		out.Reason = r.Err.Reason
		if r.Err.Err != nil {
			out.Error = r.Err.Err.Error()
		}
	}
	return json.Marshal(out)
}

// Report is the outcome of every step of one run, in execution order.
type Report struct {
	SceneID int          `json:"scene_id"`
	Steps   []StepResult `json:"steps"`
}

func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if !s.OK() {
			n++
		}
	}
	return n
}

func (r *Report) Succeeded() int {
	return len(r.Steps) - r.Failed()
}

// Step returns the result of the named step.
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// FailedSteps lists the names of the steps that did not apply.
func (r *Report) FailedSteps() []string {
	var names []string
	for _, s := range r.Steps {
		if !s.OK() {
			names = append(names, s.Name)
		}
	}
	return names
}
