/*
Package abacus is a four-function calculator engine built as a small state machine.

It models the keypad of a pocket calculator: digits, a decimal point, the four
arithmetic operators, "=" and clear. The state lives in a plain, serializable
snapshot (domain.State), so the same engine can drive a terminal REPL, an HTTP
service or an MCP tool while sessions are persisted between key presses.

# Concept

The engine is stateless. Every call receives a snapshot and returns a new one,
leaving the input untouched. Persistence and concurrency are the host's job;
see pkg/session for a Manager that serializes access per session on top of any
ports.StateStore.

# Key Features

  - Deterministic Execution: the same state and key always produce the same state.
  - Chaining: "2 * 3 + 4 =" shows 10, evaluating left to right.
  - Repeated Equals: "2 + 3 = =" replays the last operation and shows 8.
  - Undefined Results: division by zero shows "NaN" until a new number is entered.
  - Observability: lifecycle hooks for every action, computation and clear.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/abacus"
	)

	func main() {
		eng := abacus.New()
		ctx := context.Background()

		state, err := eng.Start(ctx, "session-123")
		if err != nil {
			log.Fatal(err)
		}

		state, err = eng.PressAll(ctx, state, "12.5", "*", "2", "=")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(state.CurrentValue) // 25
	}
*/
package abacus
