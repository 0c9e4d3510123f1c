package datasource

import "strings"

// Lookup tags the outcome of an entity lookup
type Lookup int

const (
	Found Lookup = iota
	NotFound
	WrongKind
	Detached
	Unsupported
)

// String returns the string representation of the lookup outcome
func (l Lookup) String() string {
	switch l {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case WrongKind:
		return "wrong kind"
	case Detached:
		return "detached"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// OK reports whether the lookup produced a value
func (l Lookup) OK() bool {
	return l == Found
}

// Kind is the kind of a named entity
type Kind int

const (
	KindBlock Kind = iota
	KindConnector
	KindPiston
	KindContainer
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindConnector:
		return "connector"
	case KindPiston:
		return "piston"
	case KindContainer:
		return "container"
	default:
		return "block"
	}
}

// ParseKind converts a kind name, defaulting to KindBlock
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "connector":
		return KindConnector
	case "piston":
		return KindPiston
	case "container", "cargo":
		return KindContainer
	default:
		return KindBlock
	}
}

// Status is the mode reported by connectors and pistons
type Status int

const (
	StatusUnknown Status = iota
	StatusUnconnected
	StatusConnectable
	StatusConnected
	StatusStopped
	StatusExtending
	StatusRetracting
)

var statusNames = map[Status]string{
	StatusUnknown:     "Unknown",
	StatusUnconnected: "Unconnected",
	StatusConnectable: "Connectable",
	StatusConnected:   "Connected",
	StatusStopped:     "Stopped",
	StatusExtending:   "Extending",
	StatusRetracting:  "Retracting",
}

// String returns the status name as used in world files
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseStatus converts a status name (case-insensitive)
func ParseStatus(s string) Status {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status
		}
	}
	return StatusUnknown
}
