package cgt

import (
	"fmt"
)

// Outcome classifies a disposal by the sign of its gross profit.
type Outcome int

const (
	// BreakEven means the asset sold for exactly what it cost.
	BreakEven Outcome = iota
	// Gain means the asset sold for more than it cost.
	Gain
	// Loss means the asset sold for less than it cost.
	Loss
)

var outcomeNames = map[Outcome]string{
	BreakEven: "BreakEven",
	Gain:      "Gain",
	Loss:      "Loss",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name so it reads well in JSON and YAML.
func (o Outcome) MarshalText() ([]byte, error) {
	name, ok := outcomeNames[o]
	if !ok {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(name), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	for value, name := range outcomeNames {
		if name == string(text) {
			*o = value
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}
