// Package http exposes the reconciliation service over HTTP.
// Both status entry points, the kitchen one and the courier webhook, feed the
// same reconcile command handler; the HTTP layer only translates payloads,
// auth headers and outcomes.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"courierbridge/internal/core/application/usecases/commands"
	"courierbridge/internal/core/application/usecases/queries"
	"courierbridge/internal/core/domain/model/order"
	"courierbridge/internal/core/ports"
	"courierbridge/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	reconcileHandler    commands.ReconcileStatusCommandHandler
	locator             commands.OrderLocator
	workingSet          ports.WorkingSet
	clientOrdersHandler queries.GetClientOrdersQueryHandler
	apiKey              string
}

// NewServer creates a new HTTP server over the reconciliation use cases.
// apiKey is the shared secret both entry points require in X-API-KEY.
func NewServer(
	reconcileHandler commands.ReconcileStatusCommandHandler,
	locator commands.OrderLocator,
	workingSet ports.WorkingSet,
	clientOrdersHandler queries.GetClientOrdersQueryHandler,
	apiKey string,
) *Server {
	registerMetrics()
	return &Server{
		reconcileHandler:    reconcileHandler,
		locator:             locator,
		workingSet:          workingSet,
		clientOrdersHandler: clientOrdersHandler,
		apiKey:              apiKey,
	}
}

// RegisterRoutes wires the server's routes and middleware into echo.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = newPayloadValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", apiKeyMiddleware(s.apiKey))
	api.POST("/orders/:order_id/status", s.UpdateOrderStatus, courierRoleMiddleware())
	api.POST("/courier/status", s.CourierWebhook, courierRoleMiddleware())
	api.GET("/orders/:order_id", s.GetOrder)
	api.GET("/clients/:client_id/orders", s.GetClientOrders)
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusUpdateRequest is the per-order callback payload. The webhook handler
// builds one from its own body shape so both entry points share the pipeline.
type statusUpdateRequest struct {
	Status          string `json:"status" validate:"required"`
	EtaMinutes      *int   `json:"eta_minutes" validate:"omitempty,min=0"`
	ProofImageRef   string `json:"proof_image_ref"`
	ProofMessageRef string `json:"proof_message_ref"`
}

// webhookMeta is the optional delivery-proof attachment of the webhook body.
type webhookMeta struct {
	ProofImageRef   string `json:"proof_image_ref"`
	ProofMessageRef string `json:"proof_message_ref"`
}

// webhookRequest carries the order identifier in the body instead of the
// path: the courier only knows its own delivery id, which may be either
// identifier space.
type webhookRequest struct {
	OrderID    string       `json:"order_id" validate:"required"`
	Status     string       `json:"status" validate:"required"`
	EtaMinutes *int         `json:"eta_minutes" validate:"omitempty,min=0"`
	Meta       *webhookMeta `json:"meta"`
}

// reconcileResponse embeds the decision in a 200 body. Couriers retry on
// transport errors, so a processed callback is always a success at the HTTP
// level; the flags tell integrators what actually happened.
type reconcileResponse struct {
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	Idempotent    bool   `json:"idempotent,omitempty"`
	Final         bool   `json:"final,omitempty"`
	Rejected      bool   `json:"rejected,omitempty"`
	UnknownStatus bool   `json:"unknown_status,omitempty"`
}

// UpdateOrderStatus handles POST /api/v1/orders/:order_id/status.
// Addressed by canonical order id; like the webhook, callers must present
// the courier role.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	var req statusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	return s.reconcile(c, c.Param("order_id"), req)
}

// CourierWebhook handles POST /api/v1/courier/status.
// The courier-facing entry point; the body identifier may be either the
// canonical id or the courier-assigned delivery id.
func (s *Server) CourierWebhook(c echo.Context) error {
	var req webhookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	update := statusUpdateRequest{Status: req.Status, EtaMinutes: req.EtaMinutes}
	if req.Meta != nil {
		update.ProofImageRef = req.Meta.ProofImageRef
		update.ProofMessageRef = req.Meta.ProofMessageRef
	}
	return s.reconcile(c, req.OrderID, update)
}

func (s *Server) reconcile(c echo.Context, identifier string, req statusUpdateRequest) error {
	statusCallbacksTotal.Inc()

	cmd, err := commands.NewReconcileStatusCommand(
		identifier, req.Status, req.EtaMinutes, req.ProofImageRef, req.ProofMessageRef,
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	outcome, err := s.reconcileHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return c.JSON(http.StatusNotFound, errorBody{
				Code:    http.StatusNotFound,
				Message: "order not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, errorBody{
			Code:    http.StatusInternalServerError,
			Message: "failed to process status update",
		})
	}

	return c.JSON(http.StatusOK, toReconcileResponse(outcome))
}

func toReconcileResponse(outcome commands.Outcome) reconcileResponse {
	switch outcome.Kind {
	case commands.OutcomeApplied:
		statusCallbacksAppliedTotal.Inc()
		return reconcileResponse{Status: "ok"}
	case commands.OutcomeIdempotent:
		statusCallbacksSuppressedTotal.Inc()
		return reconcileResponse{Status: "ok", Idempotent: true}
	case commands.OutcomeIgnored:
		statusCallbacksIgnoredTotal.Inc()
		return reconcileResponse{Status: "ignored", Reason: string(outcome.Reason)}
	case commands.OutcomeFinal:
		statusCallbacksRejectedTotal.Inc()
		return reconcileResponse{Status: "ok", Final: true}
	case commands.OutcomeRejected:
		statusCallbacksRejectedTotal.Inc()
		return reconcileResponse{Status: "ok", Rejected: true}
	case commands.OutcomeUnknownStatus:
		statusCallbacksUnknownTotal.Inc()
		return reconcileResponse{Status: "ok", UnknownStatus: true}
	default:
		return reconcileResponse{Status: "ok"}
	}
}

// orderResponse is the read-through view of one order.
type orderResponse struct {
	OrderID            string  `json:"order_id"`
	ExternalDeliveryID string  `json:"external_delivery_id,omitempty"`
	Status             string  `json:"status"`
	RawStatus          string  `json:"raw_status,omitempty"`
	EtaMinutes         *int    `json:"eta_minutes,omitempty"`
	CourierUpdatedAt   *string `json:"courier_updated_at,omitempty"`
	ConfirmedAt        *string `json:"confirmed_at,omitempty"`
	LastError          string  `json:"last_error,omitempty"`
}

// GetOrder handles GET /api/v1/orders/:order_id.
// Reads through the working set with durable reconstruction fallback.
func (s *Server) GetOrder(c echo.Context) error {
	o, err := s.locator.Locate(c.Request().Context(), c.Param("order_id"))
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return c.JSON(http.StatusNotFound, errorBody{
				Code:    http.StatusNotFound,
				Message: "order not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, errorBody{
			Code:    http.StatusInternalServerError,
			Message: "failed to retrieve order",
		})
	}

	unlock := s.workingSet.Lock(o.ID().String())
	resp := toOrderResponse(o)
	unlock()

	return c.JSON(http.StatusOK, resp)
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		OrderID:            o.ID().String(),
		ExternalDeliveryID: o.ExternalDeliveryID(),
		Status:             o.Status().String(),
		RawStatus:          o.RawVendorStatus().String(),
		EtaMinutes:         o.ETAMinutes(),
		LastError:          o.LastError(),
	}
	if at := o.CourierUpdatedAt(); at != nil {
		formatted := at.Format(time.RFC3339)
		resp.CourierUpdatedAt = &formatted
	}
	if at := o.DeliveryConfirmedAt(); at != nil {
		formatted := at.Format(time.RFC3339)
		resp.ConfirmedAt = &formatted
	}
	return resp
}

// GetClientOrders handles GET /api/v1/clients/:client_id/orders.
func (s *Server) GetClientOrders(c echo.Context) error {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "client id must be an integer",
		})
	}

	query, err := queries.NewGetClientOrdersQuery(clientID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	orders, err := s.clientOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody{
			Code:    http.StatusInternalServerError,
			Message: "failed to retrieve client orders",
		})
	}

	return c.JSON(http.StatusOK, orders)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}
	if err := c.Validate(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return c.JSON(httpErr.Code, errorBody{
				Code:    httpErr.Code,
				Message: httpErr.Error(),
			})
		}
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}
	return nil
}
