package provision

// Outcome classifies what a provisioning handler did.
type Outcome int

const (
	// OutcomeCreated means the handler created its artifact this pass.
	OutcomeCreated Outcome = iota
	// OutcomeAlreadyExists means the artifact was present and untouched.
	OutcomeAlreadyExists
	// OutcomeFailed means the handler could not provision its artifact.
	OutcomeFailed
)

// String returns a log-friendly name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already exists"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the uniform return value of every provisioning handler. The
// orchestrator, not the handler, decides whether a failure aborts the run;
// handlers only report what happened.
type Result struct {
	Outcome Outcome
	Err     error
}

// Created reports that the handler created its artifact.
func Created() Result {
	return Result{Outcome: OutcomeCreated}
}

// AlreadyExists reports the idempotent early return: the artifact was
// already in place and nothing was modified.
func AlreadyExists() Result {
	return Result{Outcome: OutcomeAlreadyExists}
}

// Failed reports that provisioning the artifact failed.
func Failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}
