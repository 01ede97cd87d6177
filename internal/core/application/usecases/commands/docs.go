// Package commands contains the write-side operations of the reconciliation
// core. The central operation is ReconcileStatusCommand: one courier status
// callback, resolved to an order by the OrderLocator, decided by the
// ReconcileStatusCommandHandler pipeline and answered with an Outcome.
//
// Handlers never mutate an order without holding its working-set lock, and
// never perform outbound I/O while holding it: decisions produce plans, side
// effects consume snapshots.
package commands
