package commands

import (
	"errors"

	"courierbridge/internal/core/domain/model/delivery"
	"courierbridge/internal/pkg/guard"
)

var (
	ErrReconcileStatusCommandIsNotConstructed = errors.New(
		"ReconcileStatusCommand must be created via NewReconcileStatusCommand constructor",
	)
	ErrIdentifierIsRequired = errors.New("order identifier is required")
	ErrRawStatusIsRequired  = errors.New("raw courier status is required")
	ErrETAIsInvalid         = errors.New("eta must not be negative")
)

// ReconcileStatusCommand represents one courier status callback to reconcile
// against an order. The identifier may be either the canonical order id or
// the courier-assigned delivery id; the locator resolves it.
//
// Example:
//
//	cmd, err := NewReconcileStatusCommand("ORD-42", "courier_departed", &eta, "", "")
//	if err != nil {
//	    return fmt.Errorf("invalid callback: %w", err)
//	}
//
//	outcome, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // the only error that crosses the controller boundary
//	}
type ReconcileStatusCommand struct { //nolint:recvcheck //using for validation
	identifier      string
	rawStatus       delivery.VendorStatus
	etaMinutes      *int
	proofImageRef   string
	proofMessageRef string

	guard guard.ConstructorGuard
}

// NewReconcileStatusCommand creates a command for one courier status callback.
// Validates that the identifier and raw status are present and that an ETA,
// when supplied, is not negative. The raw status is accepted verbatim: an
// unknown token is operational input for the handler, not a command error.
func NewReconcileStatusCommand(
	identifier string,
	rawStatus string,
	etaMinutes *int,
	proofImageRef string,
	proofMessageRef string,
) (ReconcileStatusCommand, error) {
	command := ReconcileStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setIdentifier(identifier),
		command.setRawStatus(rawStatus),
		command.setETA(etaMinutes),
	); err != nil {
		return ReconcileStatusCommand{}, err
	}

	command.proofImageRef = proofImageRef
	command.proofMessageRef = proofMessageRef

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileStatusCommandIsNotConstructed if validation fails.
func (c ReconcileStatusCommand) Validate() error {
	return c.guard.Validate(ErrReconcileStatusCommandIsNotConstructed)
}

// Identifier returns the canonical or courier-assigned order identifier.
func (c ReconcileStatusCommand) Identifier() string {
	return c.identifier
}

// RawStatus returns the vendor status token exactly as received.
func (c ReconcileStatusCommand) RawStatus() delivery.VendorStatus {
	return c.rawStatus
}

// ETAMinutes returns the courier's delivery estimate, or nil when absent.
func (c ReconcileStatusCommand) ETAMinutes() *int {
	return c.etaMinutes
}

// ProofImageRef returns the delivery proof image reference, if supplied.
func (c ReconcileStatusCommand) ProofImageRef() string {
	return c.proofImageRef
}

// ProofMessageRef returns the delivery proof message reference, if supplied.
func (c ReconcileStatusCommand) ProofMessageRef() string {
	return c.proofMessageRef
}

func (c *ReconcileStatusCommand) setIdentifier(identifier string) error {
	if identifier == "" {
		return ErrIdentifierIsRequired
	}

	c.identifier = identifier
	return nil
}

func (c *ReconcileStatusCommand) setRawStatus(rawStatus string) error {
	if rawStatus == "" {
		return ErrRawStatusIsRequired
	}

	c.rawStatus = delivery.VendorStatus(rawStatus)
	return nil
}

func (c *ReconcileStatusCommand) setETA(etaMinutes *int) error {
	if etaMinutes != nil && *etaMinutes < 0 {
		return ErrETAIsInvalid
	}

	c.etaMinutes = etaMinutes
	return nil
}
