package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCartIsEmpty          = errors.New("cart is empty")
	ErrShippingFeeIsMissing = errors.New("shipping fee is missing")
)

// SupportedPaymentMethods lists the payment methods checkout accepts.
var SupportedPaymentMethods = []string{"card", "bank_transfer", "wallet"}

// CartItem is one line of the buyer's cart.
type CartItem struct {
	ProductID kernel.UUID
	SellerID  kernel.UUID
	UnitPrice kernel.Money
	Quantity  int
	TaxRate   decimal.Decimal
}

// ShippingOption is the rate the buyer selected for one seller's parcel, as
// quoted by the shipping provider.
type ShippingOption struct {
	SellerID       kernel.UUID
	RateID         string
	Carrier        string
	DeliveryWindow string
}

// CreateOrderCommand represents a checkout: one cart, possibly spanning many
// sellers, to be turned into an order and one sub-order per seller.
//
// Example:
//
//	fee := kernel.MustMoney("12.00")
//	cmd, err := NewCreateOrderCommand(buyerID, items, &fee, options, "card", shipTo, billTo)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct {
	buyerID         kernel.UUID
	items           []CartItem
	shippingFee     kernel.Money
	options         []ShippingOption
	paymentMethod   string
	shippingAddress kernel.Address
	billingAddress  kernel.Address

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates everything that can be checked without
// storage: a non-empty cart of distinct products with positive quantities, a
// present shipping fee, a supported payment method and complete addresses.
// shippingFee is a pointer so that a missing fee is told apart from a free one.
func NewCreateOrderCommand(
	buyerID kernel.UUID,
	items []CartItem,
	shippingFee *kernel.Money,
	options []ShippingOption,
	paymentMethod string,
	shippingAddress, billingAddress kernel.Address,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setItems(items),
		cmd.setShippingFee(shippingFee),
		cmd.setOptions(options),
		cmd.setPaymentMethod(paymentMethod),
		shippingAddress.Validate("shippingAddress"),
		billingAddress.Validate("billingAddress"),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.shippingAddress = shippingAddress
	cmd.billingAddress = billingAddress
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) BuyerID() kernel.UUID            { return c.buyerID }
func (c CreateOrderCommand) Items() []CartItem               { return slices.Clone(c.items) }
func (c CreateOrderCommand) ShippingFee() kernel.Money       { return c.shippingFee }
func (c CreateOrderCommand) Options() []ShippingOption       { return slices.Clone(c.options) }
func (c CreateOrderCommand) PaymentMethod() string           { return c.paymentMethod }
func (c CreateOrderCommand) ShippingAddress() kernel.Address { return c.shippingAddress }
func (c CreateOrderCommand) BillingAddress() kernel.Address  { return c.billingAddress }

func (c *CreateOrderCommand) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.buyerID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []CartItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("cart items", ErrCartIsEmpty)
	}

	var problems []error
	seen := make(map[kernel.UUID]struct{}, len(items))
	for i, item := range items {
		field := fmt.Sprintf("cart items[%d]", i)
		if err := errors.Join(item.ProductID.Validate(), item.SellerID.Validate()); err != nil {
			problems = append(problems, err)
		}
		if _, dup := seen[item.ProductID]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".productId",
				fmt.Errorf("product %s appears more than once", item.ProductID)))
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".quantity",
				fmt.Errorf("%d is not greater than 0", item.Quantity)))
		}
		if item.UnitPrice.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".unitPrice",
				fmt.Errorf("%s is negative", item.UnitPrice)))
		}
		if item.TaxRate.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(field+".taxRate",
				fmt.Errorf("%s is negative", item.TaxRate)))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.items = slices.Clone(items)
	return nil
}

func (c *CreateOrderCommand) setShippingFee(fee *kernel.Money) error {
	if fee == nil {
		return errs.NewValueIsRequiredErrorWithCause("shipping fee", ErrShippingFeeIsMissing)
	}
	if fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("shipping fee", fmt.Errorf("%s is negative", fee))
	}
	c.shippingFee = *fee
	return nil
}

func (c *CreateOrderCommand) setOptions(options []ShippingOption) error {
	for i, o := range options {
		if err := o.SellerID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("shipping options[%d].sellerId", i), err)
		}
	}
	c.options = slices.Clone(options)
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	method = strings.TrimSpace(method)
	if method == "" {
		return errs.NewValueIsRequiredError("payment method")
	}
	if !slices.Contains(SupportedPaymentMethods, method) {
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", method))
	}
	c.paymentMethod = method
	return nil
}
