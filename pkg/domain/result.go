package domain

// ResultKind distinguishes a numeric result from an undefined one.
type ResultKind string

const (
	ResultOK        ResultKind = "ok"
	ResultUndefined ResultKind = "undefined" // Division by zero or any other non-finite outcome
)

// Result is the outcome of a single calculation.
type Result struct {
	Kind  ResultKind `json:"kind"`
	Value string     `json:"value,omitempty"` // Canonical decimal string, set when Kind == ResultOK
}

// OK builds a numeric result.
func OK(value string) Result {
	return Result{Kind: ResultOK, Value: value}
}

// Undefined builds an undefined result.
func Undefined() Result {
	return Result{Kind: ResultUndefined}
}

// Defined reports whether the result carries a numeric value.
func (r Result) Defined() bool {
	return r.Kind == ResultOK
}

// String returns the display text for the result.
func (r Result) String() string {
	if r.Kind != ResultOK {
		return NotANumber
	}
	return r.Value
}

// Computation describes one arithmetic step performed by the state machine.
type Computation struct {
	Operator Operator `json:"operator"`
	Left     string   `json:"left"`
	Right    string   `json:"right"`
	Result   Result   `json:"result"`
	Repeat   bool     `json:"repeat,omitempty"` // Triggered by a repeated "="
}
