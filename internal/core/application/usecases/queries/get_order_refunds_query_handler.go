package queries

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderRefundsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderRefundsQueryHandler(db *gorm.DB) GetOrderRefundsQueryHandler {
	return GetOrderRefundsQueryHandler{db: db}
}

// Handle returns the visible refunds oldest first.
func (h GetOrderRefundsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderRefundsQuery,
) ([]GetOrderRefundsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	party, err := h.isParty(db, query)
	if err != nil {
		return nil, err
	}

	sellerFilter := ""
	args := []any{query.OrderID().Bytes()}
	if !party {
		var owned int64
		err = db.Raw(`SELECT COUNT(*) FROM sub_orders WHERE order_id = ? AND seller_id = ?`,
			query.OrderID().Bytes(), query.CallerID().Bytes()).Row().Scan(&owned)
		if err != nil {
			return nil, err
		}
		if owned == 0 {
			return nil, errs.NewUnauthorizedError(query.CallerID().String(), "order "+query.OrderID().String())
		}
		sellerFilter = "AND s.seller_id = ?"
		args = append(args, query.CallerID().Bytes())
	}

	rows, err := db.Raw(`
		SELECT
			r.id,
			r.sub_order_id,
			r.product_id,
			r.amount,
			r.currency,
			r.quantity,
			r.reason,
			r.gateway_refund_id,
			r.status,
			r.created_at
		FROM refunds r
		JOIN sub_orders s ON s.id = r.sub_order_id
		WHERE r.order_id = ? `+sellerFilter+`
		ORDER BY r.created_at, r.id
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refunds := make([]GetOrderRefundsQueryResponse, 0)
	for rows.Next() {
		var (
			refund                    GetOrderRefundsQueryResponse
			id, subOrderID, productID uuid.UUID
			amount                    decimal.Decimal
		)
		err = rows.Scan(
			&id,
			&subOrderID,
			&productID,
			&amount,
			&refund.Currency,
			&refund.Quantity,
			&refund.Reason,
			&refund.GatewayRefundID,
			&refund.Status,
			&refund.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if refund.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if refund.SubOrderID, err = kernel.UUIDFromBytes(subOrderID[:]); err != nil {
			return nil, err
		}
		if refund.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		refund.Amount = kernel.NewMoney(amount)
		refund.CreatedAt = refund.CreatedAt.UTC()
		refunds = append(refunds, refund)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return refunds, nil
}

// isParty reports whether the caller is the order's buyer or store.
func (h GetOrderRefundsQueryHandler) isParty(db *gorm.DB, query GetOrderRefundsQuery) (bool, error) {
	var buyerID uuid.UUID
	var storeID uuid.NullUUID
	err := db.Raw(`SELECT buyer_id, store_id FROM orders WHERE id = ?`, query.OrderID().Bytes()).
		Row().Scan(&buyerID, &storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return false, err
	}

	caller := query.CallerID().Bytes()
	return buyerID == caller || (storeID.Valid && storeID.UUID == caller), nil
}
