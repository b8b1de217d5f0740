package ptbin

// State is the position of an Extraction in its lifecycle:
//
//	Idle -> Addressed -> Reading(r) -> Reconstructing(r) -> ... -> Done
//	                 \___________________________________________-> Failed
type State uint8

const (
	// StateIdle is the zero state before a request has been addressed.
	StateIdle State = iota
	// StateAddressed means the span is computed and the table is open and checked.
	StateAddressed
	// StateReading means a record is being read.
	StateReading
	// StateReconstructing means points of the current record are being emitted.
	StateReconstructing
	// StateDone means every record was emitted, or iteration stopped early.
	StateDone
	// StateFailed means extraction stopped with an error; see Extraction.Err.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAddressed:
		return "addressed"
	case StateReading:
		return "reading"
	case StateReconstructing:
		return "reconstructing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further points can be produced.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
