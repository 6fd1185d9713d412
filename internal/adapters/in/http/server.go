// Package http exposes the order API over echo. Every persisted change is
// also announced on the real-time channel.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"shopfloor/internal/adapters/in/orderdoc"
	"shopfloor/internal/adapters/metrics"
	"shopfloor/internal/core/application/realtime"
	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/order"
	"shopfloor/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
)

// Sender identity stamped on broadcasts emitted by the API.
const (
	apiSenderID   = "api"
	apiSenderRole = "system"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	UpdateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (*order.Order, error)
	}
	DeleteOrderHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteOrderCommand) (*order.Order, error)
	}
	ApplyProgressHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyProgressCommand) (commands.ApplyProgressResult, error)
	}
	GetAllOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetAllOrdersQuery) ([]*order.Order, error)
	}
	GetOrdersByPhaseHandler interface {
		Handle(ctx context.Context, query queries.GetOrdersByPhaseQuery) ([]*order.Order, error)
	}

	// Announcer broadcasts a server-side lifecycle event.
	Announcer interface {
		Announce(l realtime.Lifecycle, order realtime.OrderPayload, explicit []string, senderID, senderRole string) int
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder      CreateOrderHandler
	UpdateOrder      UpdateOrderHandler
	DeleteOrder      DeleteOrderHandler
	ApplyProgress    ApplyProgressHandler
	GetAllOrders     GetAllOrdersHandler
	GetOrdersByPhase GetOrdersByPhaseHandler
}

// Server handles the order routes and coordinates between HTTP, the
// application use cases and the real-time channel.
type Server struct {
	handlers  Handlers
	announcer Announcer
	progress  *metrics.ProgressMetrics
	logger    *slog.Logger
}

func NewServer(handlers Handlers, announcer Announcer, progress *metrics.ProgressMetrics, logger *slog.Logger) *Server {
	return &Server{
		handlers:  handlers,
		announcer: announcer,
		progress:  progress,
		logger:    logger.With("component", "http"),
	}
}

// GetOrders handles GET /orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	orders, err := s.handlers.GetAllOrders.Handle(ctx.Request().Context(), queries.NewGetAllOrdersQuery())
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, orderdoc.FromDomainAll(orders))
}

// GetOrdersByPhase handles GET /orders/:orderType?team=.
func (s *Server) GetOrdersByPhase(ctx echo.Context) error {
	var phase, team string
	if err := runtime.BindStyledParameterWithOptions("simple", "orderType", ctx.Param("orderType"), &phase,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return badRequest(ctx, err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "team", ctx.QueryParams(), &team); err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrdersByPhaseQuery(phase, team)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	orders, err := s.handlers.GetOrdersByPhase.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, orderdoc.FromDomainAll(orders))
}

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var doc orderdoc.Document
	if err := ctx.Bind(&doc); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := doc.OrderID()
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	details, err := doc.Details()
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, doc.OrderNumber, doc.CustomerName, doc.DispatcherName, details)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	stored := orderdoc.FromDomain(created)
	s.announce(realtime.LifecycleCreate, stored, nil)
	return ctx.JSON(http.StatusCreated, stored)
}

// UpdateOrder handles PUT /orders/:id.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	var rawID string
	if err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &rawID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return badRequest(ctx, err.Error())
	}
	orderID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return fail(ctx, s.logger, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var body OrderPatchRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	patch, err := body.patch()
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewUpdateOrderCommand(orderID, patch)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	updated, err := s.handlers.UpdateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	stored := orderdoc.FromDomain(updated)
	s.announce(realtime.LifecycleEdit, stored, sectionNames(updated))
	return ctx.JSON(http.StatusOK, stored)
}

// DeleteOrder handles DELETE /orders/:orderNumber.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	var number string
	if err := runtime.BindStyledParameterWithOptions("simple", "orderNumber", ctx.Param("orderNumber"), &number,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}); err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewDeleteOrderCommand(number)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	deleted, err := s.handlers.DeleteOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	stored := orderdoc.FromDomain(deleted)
	s.announce(realtime.LifecycleDelete, stored, nil)
	return ctx.JSON(http.StatusOK, stored)
}

// UpdateProgress handles PATCH /orders/update-progress.
func (s *Server) UpdateProgress(ctx echo.Context) error {
	timer := prometheus.NewTimer(s.progress.Duration)
	defer timer.ObserveDuration()

	var body ProgressRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := body.command()
	if err != nil {
		s.progress.BatchesTotal.WithLabelValues("unknown", "invalid").Inc()
		return fail(ctx, s.logger, err)
	}
	team := "unknown"
	if section, sectionErr := cmd.Section(); sectionErr == nil {
		team = section.String()
	}

	result, err := s.handlers.ApplyProgress.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		s.progress.BatchesTotal.WithLabelValues(team, batchResult(err)).Inc()
		return fail(ctx, s.logger, err)
	}

	s.progress.BatchesTotal.WithLabelValues(team, "applied").Inc()
	for _, item := range result.Progress.Items {
		s.progress.ItemsTotal.WithLabelValues(string(item.Outcome)).Inc()
	}

	response := progressResponse(result)
	s.announce(realtime.LifecycleUpdate, response.Order, []string{team})
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) announce(l realtime.Lifecycle, doc orderdoc.Document, explicit []string) {
	recipients := s.announcer.Announce(l, orderdoc.NewPayload(doc), explicit, apiSenderID, apiSenderRole)
	s.logger.Debug("order change announced",
		"event", l.Broadcast,
		"order_number", doc.OrderNumber,
		"recipients", recipients,
	)
}

func sectionNames(o *order.Order) []string {
	sections := o.PopulatedSections()
	names := make([]string, 0, len(sections))
	for _, section := range sections {
		names = append(names, section.String())
	}
	return names
}

func batchResult(err error) string {
	switch errorStatus(err) {
	case http.StatusUnprocessableEntity:
		return "exceeded"
	case http.StatusInternalServerError:
		return "error"
	default:
		return "rejected"
	}
}
