package codec

import (
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region codes
// Code is the single-byte wire form of a ternary state.
type Code = uint8

const (
	CodeOff       Code = 0
	CodeUncertain Code = 1
	CodeOn        Code = 2
)

// Encode returns the wire code for s.
func Encode(s trit.State) Code {
	switch s {
	case trit.Off:
		return CodeOff
	case trit.On:
		return CodeOn
	case trit.Uncertain:
		return CodeUncertain
	}
	return CodeUncertain
}

// Decode maps 0 to Off and 2 to On. Every other code, including out-of-range
// bytes, decodes to Uncertain.
func Decode(c Code) trit.State {
	switch c {
	case CodeOff:
		return trit.Off
	case CodeOn:
		return trit.On
	default:
		return trit.Uncertain
	}
}

// #endregion codes

// #region entry-points
// And3 decodes both operands, applies trit.And and re-encodes the result.
func And3(a, b Code) Code {
	return Encode(trit.And(Decode(a), Decode(b)))
}

// Or3 decodes both operands, applies trit.Or and re-encodes the result.
func Or3(a, b Code) Code {
	return Encode(trit.Or(Decode(a), Decode(b)))
}

// Xor3 decodes both operands, applies trit.Xor and re-encodes the result.
func Xor3(a, b Code) Code {
	return Encode(trit.Xor(Decode(a), Decode(b)))
}

// Not3 decodes a, applies trit.Not and re-encodes the result.
func Not3(a Code) Code {
	return Encode(trit.Not(Decode(a)))
}

// Decide builds a decision evaluator for delta and returns the encoded verdict.
func Decide(confidence, delta float64) Code {
	return Encode(resolve.NewDecision(delta).Decide(confidence))
}

// #endregion entry-points
