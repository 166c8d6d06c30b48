package cleaners

import "robot-cleaners/internal/core"

// Kind tags the agent variants.
type Kind uint8

const (
	// KindTrash is a passive occupant removed when a cleaner steps onto it.
	KindTrash Kind = iota + 1
	// KindCleaner performs a random walk every tick.
	KindCleaner
)

func (k Kind) String() string {
	switch k {
	case KindTrash:
		return "trash"
	case KindCleaner:
		return "cleaner"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Agent is a grid occupant.
type Agent struct {
	ID   int        `json:"id"`
	Kind Kind       `json:"kind"`
	Pos  core.Point `json:"pos"`
}
