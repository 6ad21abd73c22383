package ports

import (
	"context"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"
)

// BuyerRepository reads buyer records maintained by the user service.
type BuyerRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*account.Buyer, error)
}

// SellerRepository reads seller records and their commission terms.
type SellerRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*account.Seller, error)
}
