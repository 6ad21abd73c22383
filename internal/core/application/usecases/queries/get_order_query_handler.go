package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads orders straight from the orders, order_items
// and sub_orders tables.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError for an unknown order and
// UnauthorizedError when the caller is neither a party to the order nor a
// seller on it.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	view, err := h.readOrder(db, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if view.Items, err = h.readItems(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if view.SubOrders, err = h.readSubOrders(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	if !canRead(view, query.CallerID()) {
		return GetOrderQueryResponse{}, errs.NewUnauthorizedError(query.CallerID().String(), "order "+query.OrderID().String())
	}
	return view, nil
}

func canRead(view GetOrderQueryResponse, callerID kernel.UUID) bool {
	if view.BuyerID.IsEqual(callerID) || (view.StoreID != nil && view.StoreID.IsEqual(callerID)) {
		return true
	}
	for _, sub := range view.SubOrders {
		if sub.SellerID.IsEqual(callerID) {
			return true
		}
	}
	return false
}

func (h GetOrderQueryHandler) readOrder(db *gorm.DB, orderID kernel.UUID) (GetOrderQueryResponse, error) {
	var (
		view                               GetOrderQueryResponse
		id, buyerID                        uuid.UUID
		storeID                            uuid.NullUUID
		address                            []byte
		estimated                          sql.NullTime
		amount, tax, shipping, transaction decimal.Decimal
	)

	row := db.Raw(`
		SELECT
			id,
			buyer_id,
			store_id,
			shipping_address,
			currency,
			payment_method,
			payment_status,
			payment_transaction_id,
			fulfillment_status,
			estimated_delivery,
			amount,
			tax,
			shipping,
			transaction_fee,
			created_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	err := row.Scan(
		&id,
		&buyerID,
		&storeID,
		&address,
		&view.Currency,
		&view.PaymentMethod,
		&view.PaymentStatus,
		&view.PaymentTransactionID,
		&view.FulfillmentStatus,
		&estimated,
		&amount,
		&tax,
		&shipping,
		&transaction,
		&view.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if view.BuyerID, err = kernel.UUIDFromBytes(buyerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if storeID.Valid {
		store, storeErr := kernel.UUIDFromBytes(storeID.UUID[:])
		if storeErr != nil {
			return GetOrderQueryResponse{}, storeErr
		}
		view.StoreID = &store
	}
	if err = json.Unmarshal(address, &view.ShippingAddress); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if estimated.Valid {
		view.EstimatedDelivery = estimated.Time.Format(time.DateOnly)
	}
	view.Amount = kernel.NewMoney(amount)
	view.Tax = kernel.NewMoney(tax)
	view.Shipping = kernel.NewMoney(shipping)
	view.TransactionFee = kernel.NewMoney(transaction)
	view.CreatedAt = view.CreatedAt.UTC()
	return view, nil
}

func (h GetOrderQueryHandler) readItems(db *gorm.DB, orderID kernel.UUID) ([]OrderItemView, error) {
	rows, err := db.Raw(`
		SELECT
			product_id,
			seller_id,
			unit_price,
			quantity,
			cancelled_quantity,
			tax_amount,
			shipping_share,
			status
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	for rows.Next() {
		var (
			item                        OrderItemView
			productID, sellerID         uuid.UUID
			unitPrice, taxAmount, share decimal.Decimal
		)
		err = rows.Scan(
			&productID,
			&sellerID,
			&unitPrice,
			&item.Quantity,
			&item.CancelledQuantity,
			&taxAmount,
			&share,
			&item.Status,
		)
		if err != nil {
			return nil, err
		}

		if item.ProductID, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		if item.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return nil, err
		}
		item.UnitPrice = kernel.NewMoney(unitPrice)
		item.TaxAmount = kernel.NewMoney(taxAmount)
		item.ShippingShare = kernel.NewMoney(share)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (h GetOrderQueryHandler) readSubOrders(db *gorm.DB, orderID kernel.UUID) ([]SubOrderView, error) {
	rows, err := db.Raw(`
		SELECT
			id,
			seller_id,
			fulfillment_status,
			payment_status,
			subtotal,
			tax,
			shipping,
			commission,
			service_fee,
			seller_net,
			total,
			carrier,
			tracking_number
		FROM sub_orders
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]SubOrderView, 0)
	for rows.Next() {
		var (
			sub                                 SubOrderView
			id, sellerID                        uuid.UUID
			subtotal, tax, shipping, commission decimal.Decimal
			serviceFee, sellerNet, total        decimal.Decimal
		)
		err = rows.Scan(
			&id,
			&sellerID,
			&sub.FulfillmentStatus,
			&sub.PaymentStatus,
			&subtotal,
			&tax,
			&shipping,
			&commission,
			&serviceFee,
			&sellerNet,
			&total,
			&sub.Carrier,
			&sub.TrackingNumber,
		)
		if err != nil {
			return nil, err
		}

		if sub.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if sub.SellerID, err = kernel.UUIDFromBytes(sellerID[:]); err != nil {
			return nil, err
		}
		sub.Subtotal = kernel.NewMoney(subtotal)
		sub.Tax = kernel.NewMoney(tax)
		sub.Shipping = kernel.NewMoney(shipping)
		sub.Commission = kernel.NewMoney(commission)
		sub.ServiceFee = kernel.NewMoney(serviceFee)
		sub.SellerNet = kernel.NewMoney(sellerNet)
		sub.Total = kernel.NewMoney(total)
		subs = append(subs, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}
