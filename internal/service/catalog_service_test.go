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

func buildCatalogSvc(env *testEnv) CatalogService {
	return NewCatalogService(env.skus, env.suppliers, env.stores)
}

func TestCreateSKUNormalizesCode(t *testing.T) {
	env := newTestEnv()
	svc := buildCatalogSvc(env)
	ctx := context.Background()

	resp, err := svc.CreateSKU(ctx, dto.CreateSKURequest{
		Code:           "  br-whole ",
		Name:           "Broiler Whole",
		BirdType:       model.BirdBroiler,
		InventoryState: model.StateSkin,
	})
	require.NoError(t, err)
	assert.Equal(t, "BR-WHOLE", resp.Code)
	assert.True(t, resp.Active)

	t.Run("duplicate code conflicts", func(t *testing.T) {
		_, err := svc.CreateSKU(ctx, dto.CreateSKURequest{
			Code:           "br-whole",
			Name:           "Broiler Whole Again",
			BirdType:       model.BirdBroiler,
			InventoryState: model.StateSkin,
		})
		var conflict *domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestUpdateSKUKeepsPartitionImmutable(t *testing.T) {
	env := newTestEnv()
	svc := buildCatalogSvc(env)
	ctx := context.Background()

	sku := env.skus.seed("PC-SKINLESS", model.BirdParentCull, model.StateSkinless)

	name := "Parent Cull Skinless"
	active := false
	resp, err := svc.UpdateSKU(ctx, sku.ID, dto.UpdateSKURequest{Name: &name, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, "Parent Cull Skinless", resp.Name)
	assert.False(t, resp.Active)
	// code and partition never change after creation
	assert.Equal(t, "PC-SKINLESS", resp.Code)
	assert.Equal(t, model.BirdParentCull, resp.BirdType)
	assert.Equal(t, model.StateSkinless, resp.InventoryState)

	t.Run("unknown sku", func(t *testing.T) {
		_, err := svc.UpdateSKU(ctx, uuid.New(), dto.UpdateSKURequest{Name: &name})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestListSKUsFiltersInactive(t *testing.T) {
	env := newTestEnv()
	svc := buildCatalogSvc(env)
	ctx := context.Background()

	env.skus.seed("BR-LIVE", model.BirdBroiler, model.StateLive)
	retired := env.skus.seed("BR-OLD", model.BirdBroiler, model.StateSkin)
	retired.Active = false

	all, err := svc.ListSKUs(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListSKUs(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "BR-LIVE", active[0].Code)
}

func TestSupplierLifecycle(t *testing.T) {
	env := newTestEnv()
	svc := buildCatalogSvc(env)
	ctx := context.Background()

	created, err := svc.CreateSupplier(ctx, dto.CreateSupplierRequest{Name: "Verka Farms"})
	require.NoError(t, err)
	assert.Equal(t, model.SupplierActive, created.Status)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)

	inactive := model.SupplierInactive
	updated, err := svc.UpdateSupplier(ctx, id, dto.UpdateSupplierRequest{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, model.SupplierInactive, updated.Status)

	actives, err := svc.ListSuppliers(ctx, model.SupplierActive)
	require.NoError(t, err)
	assert.Empty(t, actives)

	t.Run("unknown supplier", func(t *testing.T) {
		_, err := svc.UpdateSupplier(ctx, uuid.New(), dto.UpdateSupplierRequest{Status: &inactive})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestStoreCreateAndStatusChange(t *testing.T) {
	env := newTestEnv()
	svc := buildCatalogSvc(env)
	ctx := context.Background()

	created, err := svc.CreateStore(ctx, dto.CreateStoreRequest{Name: "Market Road", Timezone: "Asia/Kolkata"})
	require.NoError(t, err)
	assert.Equal(t, model.StoreActive, created.Status)
	assert.Equal(t, "Asia/Kolkata", created.Timezone)

	maintenance := model.StoreMaintenance
	updated, err := svc.UpdateStore(ctx, created.ID, dto.UpdateStoreRequest{Status: &maintenance})
	require.NoError(t, err)
	assert.Equal(t, model.StoreMaintenance, updated.Status)

	t.Run("unknown store", func(t *testing.T) {
		_, err := svc.UpdateStore(ctx, 999, dto.UpdateStoreRequest{Status: &maintenance})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}
