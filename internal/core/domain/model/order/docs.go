// Package order provides the Order aggregate tracked by the delivery status
// reconciliation core.
//
// The package includes:
//   - Order: the aggregate root carrying canonical identity, the courier's
//     external identifier, the canonical delivery status and per-side-effect
//     diagnostics
//   - Source, Provider, Decision: small value types guarding which channels
//     may drive an order's delivery status
//
// Key business rules:
//   - The canonical order identifier is immutable
//   - The courier-assigned external delivery identifier is write-once
//   - The canonical status only moves along the delivery state machine
//   - The delivery confirmation timestamp is first-writer-wins
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
