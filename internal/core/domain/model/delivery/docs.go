// Package delivery provides the canonical delivery state machine and the
// vendor status vocabulary of the courier integration.
//
// The package includes:
//   - Status: the canonical, FSM-governed delivery state with a table-driven
//     transition predicate and finality check
//   - VendorStatus: the raw courier status token and its closed mapping to
//     canonical states
//
// Key business rules:
//   - Canonical status only advances along the transition table; there is no
//     silent regression
//   - Delivered and Cancelled are terminal: only their self-loop is allowed
//   - The pre-courier placeholder (StatusNone) is not an FSM state; the
//     reconciliation controller owns its special handling
package delivery
