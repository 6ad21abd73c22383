// Package account holds the read models of the marketplace users an order
// refers to. Buyers and sellers are managed elsewhere; this service only
// needs the buyer's store affiliation and the seller's commission terms.
package account

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrBuyerIsNotConstructed  = errors.New("Buyer must be created via NewBuyer constructor")
	ErrSellerIsNotConstructed = errors.New("Seller must be created via NewSeller constructor")
)

// Buyer is a purchasing user. A store-affiliated buyer acts through its
// store: the store id is what authorization and addressing use.
type Buyer struct {
	id      kernel.UUID
	storeID *kernel.UUID
	guard   guard.ConstructorGuard
}

func NewBuyer(id kernel.UUID, storeID *kernel.UUID) (*Buyer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if storeID != nil {
		if err := storeID.Validate(); err != nil {
			return nil, err
		}
	}
	return &Buyer{id: id, storeID: storeID, guard: guard.NewConstructorGuard()}, nil
}

func (b *Buyer) Validate() error {
	if b == nil {
		return ErrBuyerIsNotConstructed
	}
	return b.guard.Validate(ErrBuyerIsNotConstructed)
}

func (b *Buyer) ID() kernel.UUID       { return b.id }
func (b *Buyer) StoreID() *kernel.UUID { return b.storeID }

// CommissionTerms describe what the platform keeps from a seller's sales.
type CommissionTerms struct {
	rate          decimal.Decimal
	graceRate     decimal.Decimal
	graceUntil    *time.Time
	grossUp       bool
	isConstructed bool
}

// NewCommissionTerms validates both rates against [0, 1). graceUntil may be
// nil for sellers without a grace period.
func NewCommissionTerms(rate, graceRate decimal.Decimal, graceUntil *time.Time, grossUp bool) (CommissionTerms, error) {
	if err := errors.Join(validateRate("commission rate", rate), validateRate("grace rate", graceRate)); err != nil {
		return CommissionTerms{}, err
	}
	return CommissionTerms{
		rate:          rate,
		graceRate:     graceRate,
		graceUntil:    graceUntil,
		grossUp:       grossUp,
		isConstructed: true,
	}, nil
}

func validateRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError(name, rate.String(), "0", "1 (exclusive)")
	}
	return nil
}

// EffectiveRate is the reduced grace rate until the grace period ends and
// the standard rate afterwards.
func (t CommissionTerms) EffectiveRate(now time.Time) decimal.Decimal {
	if t.graceUntil != nil && now.Before(*t.graceUntil) {
		return t.graceRate
	}
	return t.rate
}

func (t CommissionTerms) Rate() decimal.Decimal      { return t.rate }
func (t CommissionTerms) GraceRate() decimal.Decimal { return t.graceRate }
func (t CommissionTerms) GraceUntil() *time.Time     { return t.graceUntil }
func (t CommissionTerms) GrossUp() bool              { return t.grossUp }

func (t CommissionTerms) Validate() error {
	if !t.isConstructed {
		return errs.NewValueIsInvalidErrorWithCause("commission terms", fmt.Errorf("terms must be created via NewCommissionTerms"))
	}
	return nil
}

// Seller is a vendor whose items can appear in a cart.
type Seller struct {
	id    kernel.UUID
	terms CommissionTerms
	guard guard.ConstructorGuard
}

func NewSeller(id kernel.UUID, terms CommissionTerms) (*Seller, error) {
	if err := errors.Join(id.Validate(), terms.Validate()); err != nil {
		return nil, err
	}
	return &Seller{id: id, terms: terms, guard: guard.NewConstructorGuard()}, nil
}

func (s *Seller) Validate() error {
	if s == nil {
		return ErrSellerIsNotConstructed
	}
	return s.guard.Validate(ErrSellerIsNotConstructed)
}

func (s *Seller) ID() kernel.UUID        { return s.id }
func (s *Seller) Terms() CommissionTerms { return s.terms }
