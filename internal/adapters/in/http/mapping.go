package http

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/refund"
	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

func toKernelID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromString(id.String())
}

func toAPIID(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toAddress(a servers.Address) kernel.Address {
	return kernel.Address{
		Name:       deref(a.Name),
		Line1:      a.Line1,
		Line2:      deref(a.Line2),
		City:       a.City,
		Region:     deref(a.Region),
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func fromAddress(a kernel.Address) servers.Address {
	return servers.Address{
		Name:       optional(a.Name),
		Line1:      a.Line1,
		Line2:      optional(a.Line2),
		City:       a.City,
		Region:     optional(a.Region),
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// toCreateOrderCommand converts a checkout request. Field errors are
// collected so the client sees all of them at once.
func toCreateOrderCommand(buyerID kernel.UUID, body servers.NewOrder) (commands.CreateOrderCommand, error) {
	var problems []error

	items := make([]commands.CartItem, 0, len(body.Items))
	for i, it := range body.Items {
		field := fmt.Sprintf("items[%d]", i)
		productID, err := toKernelID(it.ProductId)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".productId", err))
		}
		sellerID, err := toKernelID(it.SellerId)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".sellerId", err))
		}
		price, err := kernel.MoneyFromString(it.UnitPrice)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".unitPrice", err))
		}
		taxRate, err := decimal.NewFromString(it.TaxRate)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".taxRate", err))
		}
		items = append(items, commands.CartItem{
			ProductID: productID,
			SellerID:  sellerID,
			UnitPrice: price,
			Quantity:  it.Quantity,
			TaxRate:   taxRate,
		})
	}

	var shippingFee *kernel.Money
	if body.ShippingFee != nil {
		fee, err := kernel.MoneyFromString(*body.ShippingFee)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("shippingFee", err))
		}
		shippingFee = &fee
	}

	options := make([]commands.ShippingOption, 0, len(body.ShippingOptions))
	for i, o := range body.ShippingOptions {
		sellerID, err := toKernelID(o.SellerId)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("shippingOptions[%d].sellerId", i), err))
		}
		options = append(options, commands.ShippingOption{
			SellerID:       sellerID,
			RateID:         o.RateId,
			Carrier:        o.Carrier,
			DeliveryWindow: o.DeliveryWindow,
		})
	}

	if err := errors.Join(problems...); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(
		buyerID,
		items,
		shippingFee,
		options,
		string(body.PaymentMethod),
		toAddress(body.ShippingAddress),
		toAddress(body.BillingAddress),
	)
}

func fromOrderView(v queries.GetOrderQueryResponse) (servers.Order, error) {
	estimated, err := time.Parse(time.DateOnly, v.EstimatedDelivery)
	if err != nil {
		return servers.Order{}, errs.NewInternalError("parse estimated delivery", err)
	}

	order := servers.Order{
		Id:                   toAPIID(v.ID),
		BuyerId:              toAPIID(v.BuyerID),
		ShippingAddress:      fromAddress(v.ShippingAddress),
		Currency:             v.Currency,
		PaymentMethod:        v.PaymentMethod,
		PaymentStatus:        v.PaymentStatus,
		PaymentTransactionId: optional(v.PaymentTransactionID),
		FulfillmentStatus:    v.FulfillmentStatus,
		EstimatedDelivery:    openapi_types.Date{Time: estimated},
		Amount:               v.Amount.String(),
		Tax:                  v.Tax.String(),
		Shipping:             v.Shipping.String(),
		TransactionFee:       v.TransactionFee.String(),
		Items:                make([]servers.OrderItem, len(v.Items)),
		SubOrders:            make([]servers.SubOrder, len(v.SubOrders)),
		CreatedAt:            v.CreatedAt,
	}
	if v.StoreID != nil {
		storeID := toAPIID(*v.StoreID)
		order.StoreId = &storeID
	}

	for i, it := range v.Items {
		order.Items[i] = servers.OrderItem{
			ProductId:         toAPIID(it.ProductID),
			SellerId:          toAPIID(it.SellerID),
			UnitPrice:         it.UnitPrice.String(),
			Quantity:          it.Quantity,
			CancelledQuantity: it.CancelledQuantity,
			TaxAmount:         it.TaxAmount.String(),
			ShippingShare:     it.ShippingShare.String(),
			Status:            it.Status,
		}
	}
	for i, so := range v.SubOrders {
		order.SubOrders[i] = servers.SubOrder{
			Id:                toAPIID(so.ID),
			SellerId:          toAPIID(so.SellerID),
			FulfillmentStatus: so.FulfillmentStatus,
			PaymentStatus:     so.PaymentStatus,
			Subtotal:          so.Subtotal.String(),
			Tax:               so.Tax.String(),
			Shipping:          so.Shipping.String(),
			Commission:        so.Commission.String(),
			ServiceFee:        so.ServiceFee.String(),
			SellerNet:         so.SellerNet.String(),
			Total:             so.Total.String(),
			Carrier:           so.Carrier,
			TrackingNumber:    optional(so.TrackingNumber),
		}
	}

	return order, nil
}

func fromRefundView(v queries.GetOrderRefundsQueryResponse) servers.Refund {
	return servers.Refund{
		Id:              toAPIID(v.ID),
		SubOrderId:      toAPIID(v.SubOrderID),
		ProductId:       toAPIID(v.ProductID),
		Amount:          v.Amount.String(),
		Currency:        v.Currency,
		Quantity:        v.Quantity,
		Reason:          optional(v.Reason),
		GatewayRefundId: v.GatewayRefundID,
		Status:          v.Status,
		CreatedAt:       v.CreatedAt,
	}
}

func fromRefund(r *refund.Refund) servers.Refund {
	return servers.Refund{
		Id:              toAPIID(r.ID()),
		SubOrderId:      toAPIID(r.SubOrderID()),
		ProductId:       toAPIID(r.ProductID()),
		Amount:          r.Amount().String(),
		Currency:        r.Currency(),
		Quantity:        r.Quantity(),
		Reason:          optional(r.Reason()),
		GatewayRefundId: r.GatewayRefundID(),
		Status:          string(r.Status()),
		CreatedAt:       r.CreatedAt(),
	}
}
