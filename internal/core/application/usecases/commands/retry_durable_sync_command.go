package commands

import (
	"errors"

	"courierbridge/internal/pkg/guard"
)

var ErrRetryDurableSyncCommandIsNotConstructed = errors.New(
	"RetryDurableSyncCommand must be created via NewRetryDurableSyncCommand constructor",
)

// RetryDurableSyncCommand asks for a sweep over the working set, re-attempting
// the durable upsert for every order whose last sync failed.
//
// Example:
//
//	cmd := NewRetryDurableSyncCommand()
//	retried, err := handler.Handle(ctx, cmd)
//	if err == nil && retried > 0 {
//	    log.Printf("recovered %d stale orders", retried)
//	}
type RetryDurableSyncCommand struct {
	guard guard.ConstructorGuard
}

// NewRetryDurableSyncCommand creates a parameterless sync retry command.
func NewRetryDurableSyncCommand() RetryDurableSyncCommand {
	return RetryDurableSyncCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
// Returns ErrRetryDurableSyncCommandIsNotConstructed if validation fails.
func (c RetryDurableSyncCommand) Validate() error {
	return c.guard.Validate(ErrRetryDurableSyncCommandIsNotConstructed)
}
