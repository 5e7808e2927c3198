package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

func TestMergeDeltas_FoldsColorVariants(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []domain.CartItem{
		{ProductID: p1, Color: "red", Quantity: 2},
		{ProductID: p2, Color: "blue", Quantity: 1},
		{ProductID: p1, Color: "black", Quantity: 3},
	}

	deltas := mergeDeltas(items)

	require.Len(t, deltas, 2)
	assert.Equal(t, domain.StockDelta{ProductID: p1, Quantity: 5}, deltas[0])
	assert.Equal(t, domain.StockDelta{ProductID: p2, Quantity: 1}, deltas[1])
}

func TestMergeDeltas_Empty(t *testing.T) {
	assert.Empty(t, mergeDeltas(nil))
}

func TestInventoryAdjuster_Apply_SingleBatch(t *testing.T) {
	products := newMockProductRepo()
	adj := NewInventoryAdjuster(products, StockPolicyBestEffort, zerolog.Nop())

	p1 := primitive.NewObjectID()
	err := adj.Apply(context.Background(), []domain.CartItem{
		{ProductID: p1, Color: "red", Quantity: 1},
		{ProductID: p1, Color: "blue", Quantity: 2},
	})
	require.NoError(t, err)

	batches := products.batches()
	require.Len(t, batches, 1)
	assert.Equal(t, []domain.StockDelta{{ProductID: p1, Quantity: 3}}, batches[0])
}

func TestInventoryAdjuster_Apply_NoItemsNoWrite(t *testing.T) {
	products := newMockProductRepo()
	adj := NewInventoryAdjuster(products, StockPolicyStrict, zerolog.Nop())

	require.NoError(t, adj.Apply(context.Background(), nil))
	assert.Empty(t, products.batches())
}

func TestInventoryAdjuster_Apply_MissingProduct(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	}

	t.Run("best effort tolerates it", func(t *testing.T) {
		products := newMockProductRepo()
		products.matched = 1
		adj := NewInventoryAdjuster(products, StockPolicyBestEffort, zerolog.Nop())
		assert.NoError(t, adj.Apply(context.Background(), items))
	})

	t.Run("strict fails", func(t *testing.T) {
		products := newMockProductRepo()
		products.matched = 1
		adj := NewInventoryAdjuster(products, StockPolicyStrict, zerolog.Nop())
		assert.ErrorIs(t, adj.Apply(context.Background(), items), ErrProductMissing)
	})
}

func TestInventoryAdjuster_Apply_StoreError(t *testing.T) {
	products := newMockProductRepo()
	storeErr := errors.New("bulk write aborted")
	products.err = storeErr
	adj := NewInventoryAdjuster(products, StockPolicyBestEffort, zerolog.Nop())

	err := adj.Apply(context.Background(), []domain.CartItem{{ProductID: primitive.NewObjectID(), Quantity: 1}})
	assert.ErrorIs(t, err, storeErr)
}
