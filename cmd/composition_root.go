package cmd

import (
	"log/slog"

	apihttp "shopfloor/internal/adapters/in/http"
	"shopfloor/internal/adapters/in/ws"
	"shopfloor/internal/adapters/metrics"
	"shopfloor/internal/adapters/out/postgres"
	"shopfloor/internal/adapters/out/postgres/orderrepo"
	"shopfloor/internal/core/application/realtime"
	"shopfloor/internal/core/application/usecases/commands"
	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/services"
	"shopfloor/internal/jobs"

	"github.com/jonboulle/clockwork"
	"github.com/moby/locker"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived components and builds handlers on demand.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      clockwork.Clock
	logger     *slog.Logger

	metricsRegistry *prometheus.Registry
	progressLocks   *locker.Locker
	hub             *realtime.Hub
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		config:          config,
		gormDB:          gormDB,
		uowFactory:      postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:           clockwork.NewRealClock(),
		logger:          logger,
		metricsRegistry: metrics.NewRegistry(),
		progressLocks:   locker.New(),
	}
	c.hub = c.newHub()
	return c
}

func (c *CompositionRoot) newHub() *realtime.Hub {
	observer := metrics.NewRealtimeMetrics(c.metricsRegistry)
	registry := realtime.NewRegistry(c.clock, observer, c.logger)
	router := realtime.NewRouter(registry, services.NewTargetResolver(), c.clock, observer, c.logger)
	presence := realtime.NewPresence(registry, c.clock, c.logger)
	return realtime.NewHub(registry, router, presence, c.clock, c.logger)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) Hub() *realtime.Hub {
	return c.hub
}

func (c *CompositionRoot) MetricsRegistry() *prometheus.Registry {
	return c.metricsRegistry
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateApplyProgressCommandHandler() commands.ApplyProgressCommandHandler {
	return commands.NewApplyProgressCommandHandler(c.orderUoWFactory(), c.progressLocks, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrdersByPhaseQueryHandler() queries.GetOrdersByPhaseQueryHandler {
	return queries.NewGetOrdersByPhaseQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateHTTPServer() *apihttp.Server {
	return apihttp.NewServer(apihttp.Handlers{
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		UpdateOrder:      c.CreateUpdateOrderCommandHandler(),
		DeleteOrder:      c.CreateDeleteOrderCommandHandler(),
		ApplyProgress:    c.CreateApplyProgressCommandHandler(),
		GetAllOrders:     c.CreateGetAllOrdersQueryHandler(),
		GetOrdersByPhase: c.CreateGetOrdersByPhaseQueryHandler(),
	}, c.hub, metrics.NewProgressMetrics(c.metricsRegistry), c.logger)
}

func (c *CompositionRoot) CreateWebSocketHandler() *ws.Handler {
	return ws.NewHandler(
		c.hub,
		c.clock,
		metrics.NewWebSocketMetrics(c.metricsRegistry),
		c.config.WebSocket(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPMetrics() *metrics.HTTPMetrics {
	return metrics.NewHTTPMetrics(c.metricsRegistry)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.hub, c.config.PresenceSweepInterval, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
