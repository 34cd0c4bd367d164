package trit

import (
	"errors"
	"fmt"
	"strings"
)

// #region state
// State is a three-valued truth value: definite false, indeterminate, or definite true.
// The set of variants is closed; every switch over State in this package lists all three.
type State uint8

const (
	Off       State = iota // definite false
	Uncertain              // indeterminate, the Ψ state
	On                     // definite true
)

// States lists every variant in ascending numeric order.
var States = [...]State{Off, Uncertain, On}

// #endregion state

// #region conversions
// Numeric returns the canonical value of s on the [0,1] line.
func (s State) Numeric() float64 {
	switch s {
	case Off:
		return 0.0
	case On:
		return 1.0
	case Uncertain:
		return 0.5
	}
	return 0.5
}

// Symbol returns the display token for s. It is never used for comparison.
func (s State) Symbol() string {
	switch s {
	case Off:
		return "🔴"
	case Uncertain:
		return "🟡"
	case On:
		return "🟢"
	}
	return "⚪"
}

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case Uncertain:
		return "uncertain"
	case On:
		return "on"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Valid reports whether s is one of the three defined variants.
func (s State) Valid() bool {
	return s == Off || s == Uncertain || s == On
}

func (s State) IsSuccess() bool   { return s == On }
func (s State) IsFailure() bool   { return s == Off }
func (s State) IsUncertain() bool { return s == Uncertain }

// #endregion conversions

// #region parse
// ErrUnknownState is returned by ParseState for input that names no variant.
var ErrUnknownState = errors.New("unknown ternary state")

// ParseState accepts a variant name, its display symbol, or one of the
// dashboard aliases ("psi", "Ψ", "true", "false"). Wire codes are not state
// names; decode them with codec.Decode.
func ParseState(text string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "off", "false", "no", "🔴":
		return Off, nil
	case "on", "true", "yes", "🟢":
		return On, nil
	case "uncertain", "psi", "ψ", "unknown", "maybe", "🟡":
		return Uncertain, nil
	}
	return Off, fmt.Errorf("%w: %q", ErrUnknownState, text)
}

// #endregion parse
