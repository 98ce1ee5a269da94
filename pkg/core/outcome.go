package core

// Outcome is the settlement of one executed job: exactly one of Result
// and Error is meaningful.
type Outcome struct {
	Name   string
	Result any
	Error  error
}

// Success creates a successful Outcome.
func Success(name string, result any) *Outcome {
	return &Outcome{Name: name, Result: result}
}

// Failure creates a failed Outcome.
func Failure(name string, err error) *Outcome {
	return &Outcome{Name: name, Error: err}
}

// Failed reports whether the job failed.
func (o *Outcome) Failed() bool {
	return o != nil && o.Error != nil
}
