package commands

import (
	"context"
	"log/slog"

	"shopfloor/internal/core/domain/model/order"

	"github.com/jonboulle/clockwork"
	"github.com/moby/locker"
)

// ApplyProgressResult is the persisted order together with the per-update report.
type ApplyProgressResult struct {
	Order    *order.Order
	Progress order.ProgressResult
}

// ApplyProgressCommandHandler runs the order progress aggregation.
//
// Updates for the same order number are serialized twice: by an in-process
// lock keyed on the number, and by a row lock taken inside the transaction
// so that several processes sharing one database also queue up.
type ApplyProgressCommandHandler struct {
	uowFactory OrderUoWFactory
	locks      *locker.Locker
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewApplyProgressCommandHandler(
	uowFactory OrderUoWFactory,
	locks *locker.Locker,
	clock clockwork.Clock,
	logger *slog.Logger,
) ApplyProgressCommandHandler {
	return ApplyProgressCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		clock:      clock,
		logger:     logger.With("component", "apply-progress"),
	}
}

// Handle folds the batch into the order and persists it. The batch is
// all-or-nothing: on order.ErrQuantityExceeded nothing is written.
func (h ApplyProgressCommandHandler) Handle(ctx context.Context, cmd ApplyProgressCommand) (ApplyProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return ApplyProgressResult{}, err
	}

	h.locks.Lock(cmd.OrderNumber())
	defer func() {
		_ = h.locks.Unlock(cmd.OrderNumber())
	}()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ApplyProgressResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetByNumberForUpdate(ctx, cmd.OrderNumber())
	if err != nil {
		return ApplyProgressResult{}, err
	}

	section, err := cmd.Section()
	if err != nil {
		return ApplyProgressResult{}, err
	}

	progress, err := o.ApplyProgress(section, cmd.Updates(), h.clock.Now())
	if err != nil {
		return ApplyProgressResult{}, err
	}

	for _, itemID := range progress.Skipped() {
		h.logger.WarnContext(ctx, "item not found in section",
			"order_number", cmd.OrderNumber(),
			"team_type", section.String(),
			"item_id", itemID.String(),
		)
	}

	if err = repo.Update(ctx, o); err != nil {
		return ApplyProgressResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ApplyProgressResult{}, err
	}

	return ApplyProgressResult{Order: o, Progress: progress}, nil
}
