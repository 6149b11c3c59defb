// Package harness runs calculator conformance scenarios.
//
// A scenario presses keys on a real engine session and checks what the
// display shows after each step, then evaluates assertions over the whole
// trace and the final state.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: add_two_numbers
//	description: "6+3= shows 9"
//	session_id: "scenario-add"     # optional, fixes press IDs
//	steps:
//	  - press: "6+3"
//	    expect:
//	      expression: "6+3"
//	      result: ""
//	  - press: "="
//	    expect:
//	      result: "9"
//	      outcome: applied
//	assertions:
//	  - type: final_state
//	    expression: "6+3"
//	    result: "9"
//	    mode: displaying
//	  - type: outcome_count
//	    outcome: error
//	    count: 0
//	  - type: trace_contains
//	    key: "="
//	    outcome: applied
//	  - type: display_sequence
//	    results: ["9"]
//
// A step's press string may hold several keys; the expect clause is
// checked after the last of them. Keys may use the keypad's ASCII aliases
// (* for ×, / for ÷).
//
// # Assertion Types
//
//   - final_state: the expression, result and/or mode after the last step
//   - outcome_count: how many presses reported an outcome
//   - trace_contains: a press of key (optionally with an outcome) occurred
//   - display_sequence: the results shown, in order, with repeats collapsed
//
// # Deterministic Testing
//
// Every run uses a fixed session ID (testutil.FixedSessionGenerator), the
// session's logical clock and a fresh in-memory tape, so traces are
// byte-identical across runs and can be compared with golden files.
// The tape is read back from the store and replayed through a fresh
// engine; a divergent replay fails the scenario.
package harness
