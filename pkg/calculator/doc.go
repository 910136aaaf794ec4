/*
Package calculator implements the four-function calculator state machine.

A Calculator owns a single domain.State and exposes the five keypad actions
(EnterValue, EnterDecimal, EnterOperator, CalculateTotal, Clear) plus the pure
Calculate helper. It is synchronous and holds no locks: one user action at a
time, one owner per instance. Hosts that share sessions across goroutines go
through pkg/session, which serializes access per session.

# Sequencing

	1 + 2 =      -> 3             (pending operation applied)
	1 + 2 +      -> 3, primed "+" (operator chaining)
	1 + 2 = =    -> 3, 5          (repeat-equals replays "+ 2")
	1 / 0 =      -> NaN           (undefined result)
*/
package calculator
