package commands

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type RecordPayoutCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	logger     *zap.Logger
}

func NewRecordPayoutCommandHandler(uowFactory FulfillmentUoWFactory, logger *zap.Logger) RecordPayoutCommandHandler {
	return RecordPayoutCommandHandler{
		uowFactory: uowFactory,
		logger:     nopLogger(logger).With(zap.String("component", "record_payout")),
	}
}

func (h RecordPayoutCommandHandler) Handle(ctx context.Context, command RecordPayoutCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return persistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	subRepo := uow.SubOrderRepository()
	sub, err := subRepo.GetForUpdate(ctx, command.SubOrderID())
	if err != nil {
		return persistence("lock sub-order", err)
	}
	if err = sub.RecordPayout(command.TransferID(), time.Now().UTC()); err != nil {
		return err
	}
	if err = subRepo.Update(ctx, sub); err != nil {
		return persistence("update sub-order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return persistence("commit payout", err)
	}

	h.logger.Info("payout recorded",
		zap.String("sub_order_id", sub.ID().String()),
		zap.String("transfer_id", command.TransferID()),
	)
	return nil
}
