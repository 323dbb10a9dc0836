package serve

// State is a step of the server lifecycle.
type State int32

const (
	StateIdle State = iota
	StateResolvingVersion
	StateValidating
	StateFatal
	StateServing
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingVersion:
		return "resolving_version"
	case StateValidating:
		return "validating"
	case StateFatal:
		return "fatal"
	case StateServing:
		return "serving"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
