/*
Package domain contains the core domain models of the abacus calculator.

It defines the fundamental entities of the state machine: the Operator and
Mode enumerations, the persisted State snapshot, the explicit Result of an
arithmetic step and the keypad Actions a host feeds into the machine. The
package is pure and free of I/O, following the Hexagonal Architecture of the
rest of the module.

# Key Entities

  - Operator: one of the four binary operators (+, -, *, /).
  - Mode: the input-mode tag deciding whether the next digit appends or starts fresh.
  - State: the runtime snapshot of a session (display, pending and last operations, mode).
  - Result: the outcome of a single calculation, either a value or undefined.
  - Action: a discrete keypad event (digit, decimal, operator, equals, clear).
*/
package domain
