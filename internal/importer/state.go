package importer

// State is the position of a Coordinator in the import workflow.
type State int32

const (
	Idle State = iota
	FileLoaded
	Validated
	Committing
	Committed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FileLoaded:
		return "file loaded"
	case Validated:
		return "validated"
	case Committing:
		return "committing"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}
