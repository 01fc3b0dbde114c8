package backend

import (
	"strconv"
)

// RollResult is the value of an evaluated expression: a number plus a trace
// of the dice that were drawn to produce it. The trace is empty only when no
// dice were involved
type RollResult struct {
	Value float64
	Trace string
}

// joinTrace concatenates two traces, skipping empty ones so that no stray
// separators appear
func joinTrace(left, right string) string {
	switch {
	case left == "":
		return right
	case right == "":
		return left
	}

	return left + ", " + right
}

// Add returns the sum of two results
func (r RollResult) Add(o RollResult) RollResult {
	return RollResult{r.Value + o.Value, joinTrace(r.Trace, o.Trace)}
}

// Sub returns the difference of two results
func (r RollResult) Sub(o RollResult) RollResult {
	return RollResult{r.Value - o.Value, joinTrace(r.Trace, o.Trace)}
}

// Mul returns the product of two results
func (r RollResult) Mul(o RollResult) RollResult {
	return RollResult{r.Value * o.Value, joinTrace(r.Trace, o.Trace)}
}

// Div returns the quotient of two results. Callers check for a zero divisor
func (r RollResult) Div(o RollResult) RollResult {
	return RollResult{r.Value / o.Value, joinTrace(r.Trace, o.Trace)}
}

// Neg negates the value and keeps the trace
func (r RollResult) Neg() RollResult {
	return RollResult{-r.Value, r.Trace}
}

// Less compares values only
func (r RollResult) Less(o RollResult) bool { return r.Value < o.Value }

// Greater compares values only
func (r RollResult) Greater(o RollResult) bool { return r.Value > o.Value }

// LessEq compares values only
func (r RollResult) LessEq(o RollResult) bool { return r.Value <= o.Value }

// GreaterEq compares values only
func (r RollResult) GreaterEq(o RollResult) bool { return r.Value >= o.Value }

// LessNumber compares the value against a bare number
func (r RollResult) LessNumber(n float64) bool { return r.Value < n }

// GreaterNumber compares the value against a bare number
func (r RollResult) GreaterNumber(n float64) bool { return r.Value > n }

// LessEqNumber compares the value against a bare number
func (r RollResult) LessEqNumber(n float64) bool { return r.Value <= n }

// GreaterEqNumber compares the value against a bare number
func (r RollResult) GreaterEqNumber(n float64) bool { return r.Value >= n }

// String renders "<value>" for dice-free results and "<value>: {<trace>}"
// otherwise
func (r RollResult) String() string {
	if r.Trace == "" {
		return formatNumber(r.Value)
	}

	return formatNumber(r.Value) + ": {" + r.Trace + "}"
}

// formatNumber prints the shortest decimal representation of v, so integral
// values print without a fraction
func formatNumber(v float64) string {
	if v == 0 {
		// avoid printing negative zero
		return "0"
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}
