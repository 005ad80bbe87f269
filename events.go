package strategycache

// EventKind identifies a cache lifecycle notification or query.
//
// Add, Update, Remove, Get and Clear are lifecycle events delivered to
// the strategy and then to every registered observer, in registration
// order. IsValid and Replace are queries answered by the strategy alone.
type EventKind int

const (
	EventAdd EventKind = iota
	EventUpdate
	EventRemove
	EventGet
	EventClear
	EventIsValid
	EventReplace
)

// String returns the event name
func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "add"
	case EventUpdate:
		return "update"
	case EventRemove:
		return "remove"
	case EventGet:
		return "get"
	case EventClear:
		return "clear"
	case EventIsValid:
		return "isvalid"
	case EventReplace:
		return "replace"
	default:
		return "unknown"
	}
}
