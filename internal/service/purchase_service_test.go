package service

import (
	"context"
	"testing"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPurchaseSvc(env *testEnv) PurchaseService {
	return NewPurchaseService(env.purchases, env.suppliers, env.stores, env.stock)
}

func TestPurchaseDraftDoesNotTouchStock(t *testing.T) {
	env := newTestEnv()
	svc := buildPurchaseSvc(env)
	supplier := env.suppliers.seed("Valley Farms", model.SupplierActive)

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		StoreID:     1,
		SupplierID:  supplier.ID.String(),
		BirdType:    model.BirdBroiler,
		BirdCount:   50,
		TotalWeight: dec("100"),
		PricePerKg:  dec("95.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.PurchaseDraft, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(dec("9550.00")), "got %s", resp.TotalAmount)
	assert.Empty(t, env.ledger.entries, "a draft must not post to the ledger")
}

func TestPurchaseCommitPostsLiveCredit(t *testing.T) {
	env := newTestEnv()
	svc := buildPurchaseSvc(env)
	ctx := context.Background()
	actor := uuid.New()
	supplier := env.suppliers.seed("Valley Farms", model.SupplierActive)

	created, err := svc.Create(ctx, actor, dto.CreatePurchaseRequest{
		StoreID:     1,
		SupplierID:  supplier.ID.String(),
		BirdType:    model.BirdBroiler,
		BirdCount:   50,
		TotalWeight: dec("100"),
		PricePerKg:  dec("95"),
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	committed, err := svc.Commit(ctx, id, actor)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCommitted, committed.Status)
	require.NotNil(t, committed.CommittedAt)

	balance, err := env.stock.Balance(ctx, nil, 1, model.BirdBroiler, model.StateLive, nil)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")), "got %s", balance)
	assert.Equal(t, 1, env.ledger.countByReason(model.ReasonPurchaseReceived))
}

func TestPurchaseCommitIsOnceOnly(t *testing.T) {
	env := newTestEnv()
	svc := buildPurchaseSvc(env)
	ctx := context.Background()
	actor := uuid.New()
	supplier := env.suppliers.seed("Valley Farms", model.SupplierActive)

	created, err := svc.Create(ctx, actor, dto.CreatePurchaseRequest{
		StoreID:     1,
		SupplierID:  supplier.ID.String(),
		BirdType:    model.BirdBroiler,
		BirdCount:   10,
		TotalWeight: dec("25"),
		PricePerKg:  dec("95"),
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(created.ID)

	_, err = svc.Commit(ctx, id, actor)
	require.NoError(t, err)

	_, err = svc.Commit(ctx, id, actor)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, 1, env.ledger.countByReason(model.ReasonPurchaseReceived), "no double credit")
}

func TestPurchaseCancelOnlyFromDraft(t *testing.T) {
	env := newTestEnv()
	svc := buildPurchaseSvc(env)
	ctx := context.Background()
	actor := uuid.New()
	supplier := env.suppliers.seed("Valley Farms", model.SupplierActive)

	mk := func() uuid.UUID {
		created, err := svc.Create(ctx, actor, dto.CreatePurchaseRequest{
			StoreID:     1,
			SupplierID:  supplier.ID.String(),
			BirdType:    model.BirdBroiler,
			BirdCount:   10,
			TotalWeight: dec("25"),
			PricePerKg:  dec("95"),
		})
		require.NoError(t, err)
		id, _ := uuid.Parse(created.ID)
		return id
	}

	t.Run("draft cancels cleanly", func(t *testing.T) {
		id := mk()
		resp, err := svc.Cancel(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.PurchaseCancelled, resp.Status)
	})

	t.Run("committed refuses to cancel", func(t *testing.T) {
		id := mk()
		_, err := svc.Commit(ctx, id, actor)
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, id)
		var stateErr *domain.InvalidStateError
		assert.ErrorAs(t, err, &stateErr)
	})

	t.Run("cancelled refuses to commit", func(t *testing.T) {
		id := mk()
		_, err := svc.Cancel(ctx, id)
		require.NoError(t, err)
		_, err = svc.Commit(ctx, id, actor)
		var stateErr *domain.InvalidStateError
		assert.ErrorAs(t, err, &stateErr)
	})
}

func TestPurchaseRequiresActiveSupplier(t *testing.T) {
	env := newTestEnv()
	svc := buildPurchaseSvc(env)
	supplier := env.suppliers.seed("Defunct Farms", model.SupplierInactive)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePurchaseRequest{
		StoreID:     1,
		SupplierID:  supplier.ID.String(),
		BirdType:    model.BirdBroiler,
		BirdCount:   10,
		TotalWeight: dec("25"),
		PricePerKg:  dec("95"),
	})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
