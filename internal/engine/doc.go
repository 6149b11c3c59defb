// Package engine implements the tally calculator engine.
//
// The engine is the only part of tally with decision logic. It accumulates
// key presses into an expression, evaluates a single binary operation and
// governs the switch between typing an expression and showing a result.
//
// STATE:
//
// The engine is always in exactly one of two states:
//   - Entering:   the user is composing an expression; no result is shown
//   - Displaying: a number or the literal "Error" is shown below the
//     expression that produced it
//
// The expression holds at most one operator. The operator is an Operator
// value set by ApplyOperator; Evaluate never rescans typed keys for it.
//
// FAILURE POLICIES:
//
// Three kinds of bad input are handled differently and must stay distinct:
//  1. Structural no-ops (second operator, operator on an empty expression,
//     Evaluate with no operator or with an operand that repeats the
//     operator) leave the state unchanged.
//  2. Division by zero leaves the state unchanged.
//  3. An operand that does not parse as a number shows "Error".
//
// None of these surface as Go errors. Every operation returns an Outcome
// saying which path was taken, for traces and display surfaces.
//
// SESSIONS:
//
// Session wraps an Engine with a logical clock and an optional tape so
// every key press becomes an ir.Press record. Replay re-runs a recorded
// tape through a fresh engine and reports any divergence.
//
// The engine is synchronous and not safe for concurrent use; surfaces
// drive it from a single goroutine.
package engine
