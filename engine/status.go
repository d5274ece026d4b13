package engine

// Status describes the lifecycle position of an execution context.
type Status int

const (
	// StatusUnbound means no context exists (resolution failed or the
	// owning handle was emptied by a transfer).
	StatusUnbound Status = iota

	// StatusPrepared means the context is bound to a function and ready
	// for its first execution.
	StatusPrepared

	// StatusSuspended means the context ran partway and yielded; local
	// variables and the call stack are preserved for the next resume.
	StatusSuspended

	// StatusFinished means the context ran to completion or faulted.
	StatusFinished

	// StatusReleased means the context's resources were returned to the
	// engine. Terminal.
	StatusReleased
)

func (s Status) String() string {
	switch s {
	case StatusUnbound:
		return "unbound"
	case StatusPrepared:
		return "prepared"
	case StatusSuspended:
		return "suspended"
	case StatusFinished:
		return "finished"
	case StatusReleased:
		return "released"
	default:
		return "unknown"
	}
}
