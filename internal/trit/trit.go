package trit

import (
	"errors"
	"fmt"
	"strings"
)

// #region classify
// Classify maps a raw value to a State using a tolerance band of half-width delta.
// The On threshold is tested first, so when delta >= 0.5 and the thresholds cross,
// values satisfying both resolve to On. Out-of-range values are compared as-is.
func Classify(value, delta float64) State {
	if value >= 1.0-delta {
		return On
	}
	if value <= delta {
		return Off
	}
	return Uncertain
}

// #endregion classify

// #region connectives
// And is Kleene conjunction: Off dominates, On only when both are On.
func And(a, b State) State {
	switch {
	case a == Off || b == Off:
		return Off
	case a == On && b == On:
		return On
	default:
		return Uncertain
	}
}

// Or is Kleene disjunction: On dominates, Off only when both are Off.
func Or(a, b State) State {
	switch {
	case a == On || b == On:
		return On
	case a == Off && b == Off:
		return Off
	default:
		return Uncertain
	}
}

// Not swaps On and Off and leaves Uncertain unchanged.
func Not(a State) State {
	switch a {
	case On:
		return Off
	case Off:
		return On
	case Uncertain:
		return Uncertain
	}
	return Uncertain
}

// Xor returns Uncertain if either operand is Uncertain, otherwise two-valued XOR.
func Xor(a, b State) State {
	if a == Uncertain || b == Uncertain || !a.Valid() || !b.Valid() {
		return Uncertain
	}
	if a == b {
		return Off
	}
	return On
}

// #endregion connectives

// #region folds
// AndAll folds And over states. The empty conjunction is On.
func AndAll(states ...State) State {
	acc := On
	for _, s := range states {
		acc = And(acc, s)
	}
	return acc
}

// OrAll folds Or over states. The empty disjunction is Off.
func OrAll(states ...State) State {
	acc := Off
	for _, s := range states {
		acc = Or(acc, s)
	}
	return acc
}

// Consensus returns the majority of On and Off votes. More than a third
// Uncertain votes, a tie, or no votes at all yields Uncertain.
func Consensus(states ...State) State {
	var on, off, psi int
	for _, s := range states {
		switch s {
		case On:
			on++
		case Off:
			off++
		default:
			psi++
		}
	}

	if psi*3 > len(states) {
		return Uncertain
	}
	switch {
	case on > off:
		return On
	case off > on:
		return Off
	default:
		return Uncertain
	}
}

// #endregion folds

// #region op
// Op names a binary connective.
type Op string

const (
	OpAnd Op = "and"
	OpOr  Op = "or"
	OpXor Op = "xor"
)

// ErrUnknownOp is returned by ParseOp for names that are not connectives.
var ErrUnknownOp = errors.New("unknown connective")

// ParseOp resolves a connective name such as "and" or "AND3".
func ParseOp(name string) (Op, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "3") {
	case "and":
		return OpAnd, nil
	case "or":
		return OpOr, nil
	case "xor":
		return OpXor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOp, name)
}

// Apply evaluates op over a and b. Unknown ops yield Uncertain.
func (op Op) Apply(a, b State) State {
	switch op {
	case OpAnd:
		return And(a, b)
	case OpOr:
		return Or(a, b)
	case OpXor:
		return Xor(a, b)
	}
	return Uncertain
}

// #endregion op
