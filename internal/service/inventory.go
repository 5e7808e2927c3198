package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

// StockPolicy controls what happens when a product referenced by an
// order no longer exists in the catalog at adjustment time.
type StockPolicy int

const (
	// StockPolicyBestEffort logs missing products and carries on; the
	// order is still placed.
	StockPolicyBestEffort StockPolicy = iota
	// StockPolicyStrict fails the adjustment, which aborts the checkout
	// before the cart is deleted.
	StockPolicyStrict
)

// InventoryAdjuster applies an order's stock/sold deltas as one batch.
type InventoryAdjuster struct {
	products repository.ProductRepository
	policy   StockPolicy
	logger   zerolog.Logger
}

func NewInventoryAdjuster(products repository.ProductRepository, policy StockPolicy, logger zerolog.Logger) *InventoryAdjuster {
	return &InventoryAdjuster{
		products: products,
		policy:   policy,
		logger:   logger,
	}
}

// Apply decrements stock and increments the sold counter by each line
// item's quantity, merged per product and submitted as a single bulk
// write, not item by item.
func (a *InventoryAdjuster) Apply(ctx context.Context, items []domain.CartItem) error {
	deltas := mergeDeltas(items)
	if len(deltas) == 0 {
		return nil
	}

	matched, err := a.products.AdjustStock(ctx, deltas)
	if err != nil {
		return fmt.Errorf("inventory adjustment failed: %w", err)
	}

	if matched < int64(len(deltas)) {
		if a.policy == StockPolicyStrict {
			return fmt.Errorf("%w: %d of %d products matched", ErrProductMissing, matched, len(deltas))
		}
		a.logger.Warn().
			Int64("matched", matched).
			Int("expected", len(deltas)).
			Msg("stock adjustment skipped missing products")
	}
	return nil
}

// mergeDeltas folds line items into one delta per product id, so two
// color variants of the same product move stock once with the summed
// quantity.
func mergeDeltas(items []domain.CartItem) []domain.StockDelta {
	index := make(map[primitive.ObjectID]int, len(items))
	deltas := make([]domain.StockDelta, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			deltas[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(deltas)
		deltas = append(deltas, domain.StockDelta{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return deltas
}
