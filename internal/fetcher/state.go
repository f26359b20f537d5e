package fetcher

import "github.com/greven/forex/internal/xerrors"

// State is the fetcher's lifecycle, owned and transitioned by the
// supervisor that holds it — the fetcher loop itself never reads or
// writes State (spec.md section 4.4's state machine is a supervision
// concern, not a fetcher concern).
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateStopped
	StateDeleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// CanStart reports whether start is a legal transition from s.
// start is legal from not_started or stopped; starting while running is
// rejected with ErrAlreadyStarted (spec.md section 4.4: "Starting when
// running yields {error, already_started}").
func (s State) CanStart() bool { return s == StateNotStarted || s == StateStopped }

// CanStop reports whether stop is a legal transition from s (running only).
func (s State) CanStop() bool { return s == StateRunning }

// CanRestart reports whether restart is a legal transition from s (stopped only).
func (s State) CanRestart() bool { return s == StateStopped }

// CanDelete reports whether delete is a legal transition from s (stopped only).
func (s State) CanDelete() bool { return s == StateStopped }

// ErrAlreadyStarted and ErrNotRunning re-export the lifecycle sentinels
// for callers in this package's own error returns.
var (
	ErrAlreadyStarted = xerrors.AlreadyStarted
	ErrNotRunning     = xerrors.NotRunning
)
