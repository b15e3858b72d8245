package service

import (
	"context"
	"fmt"
	"strings"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
)

// CatalogService administers the reference data behind the operational flows:
// SKUs, suppliers, and stores.
type CatalogService interface {
	CreateSKU(ctx context.Context, req dto.CreateSKURequest) (*dto.SKUResponse, error)
	UpdateSKU(ctx context.Context, id uuid.UUID, req dto.UpdateSKURequest) (*dto.SKUResponse, error)
	ListSKUs(ctx context.Context, activeOnly bool) ([]dto.SKUResponse, error)

	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error)
	ListSuppliers(ctx context.Context, status string) ([]dto.SupplierResponse, error)

	CreateStore(ctx context.Context, req dto.CreateStoreRequest) (*dto.StoreResponse, error)
	UpdateStore(ctx context.Context, id int, req dto.UpdateStoreRequest) (*dto.StoreResponse, error)
	ListStores(ctx context.Context) ([]dto.StoreResponse, error)
}

type catalogService struct {
	skuRepo      repository.SKURepository
	supplierRepo repository.SupplierRepository
	storeRepo    repository.StoreRepository
}

func NewCatalogService(
	skuRepo repository.SKURepository,
	supplierRepo repository.SupplierRepository,
	storeRepo repository.StoreRepository,
) CatalogService {
	return &catalogService{skuRepo: skuRepo, supplierRepo: supplierRepo, storeRepo: storeRepo}
}

func (s *catalogService) CreateSKU(ctx context.Context, req dto.CreateSKURequest) (*dto.SKUResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, err := s.skuRepo.FindByCode(ctx, code); err == nil {
		return nil, domain.Conflictf("sku code %s already exists", code)
	}
	sku := &model.SKU{
		Code:           code,
		Name:           req.Name,
		BirdType:       req.BirdType,
		InventoryState: req.InventoryState,
		Active:         true,
	}
	if err := s.skuRepo.Create(ctx, sku); err != nil {
		return nil, err
	}
	return skuToResponse(sku), nil
}

func (s *catalogService) UpdateSKU(ctx context.Context, id uuid.UUID, req dto.UpdateSKURequest) (*dto.SKUResponse, error) {
	sku, err := s.skuRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("sku", id.String())
	}
	// Code and partition are immutable once created; ledger history references
	// them.
	if req.Name != nil {
		sku.Name = *req.Name
	}
	if req.Active != nil {
		sku.Active = *req.Active
	}
	if err := s.skuRepo.Update(ctx, sku); err != nil {
		return nil, err
	}
	return skuToResponse(sku), nil
}

func (s *catalogService) ListSKUs(ctx context.Context, activeOnly bool) ([]dto.SKUResponse, error) {
	skus, err := s.skuRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SKUResponse, 0, len(skus))
	for i := range skus {
		items = append(items, *skuToResponse(&skus[i]))
	}
	return items, nil
}

func (s *catalogService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Status:  model.SupplierActive,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, req dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("supplier", id.String())
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Phone != nil {
		supplier.Phone = req.Phone
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *catalogService) ListSuppliers(ctx context.Context, status string) ([]dto.SupplierResponse, error) {
	suppliers, err := s.supplierRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		items = append(items, *supplierToResponse(&suppliers[i]))
	}
	return items, nil
}

func (s *catalogService) CreateStore(ctx context.Context, req dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	store := &model.Store{Name: req.Name, Status: model.StoreActive}
	if req.Timezone != "" {
		store.Timezone = req.Timezone
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	return storeToResponse(store), nil
}

func (s *catalogService) UpdateStore(ctx context.Context, id int, req dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("store", fmt.Sprint(id))
	}
	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Timezone != nil {
		store.Timezone = *req.Timezone
	}
	if req.Status != nil {
		store.Status = *req.Status
	}
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return storeToResponse(store), nil
}

func (s *catalogService) ListStores(ctx context.Context) ([]dto.StoreResponse, error) {
	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(stores))
	for i := range stores {
		items = append(items, *storeToResponse(&stores[i]))
	}
	return items, nil
}

func skuToResponse(s *model.SKU) *dto.SKUResponse {
	return &dto.SKUResponse{
		ID:             s.ID.String(),
		Code:           s.Code,
		Name:           s.Name,
		BirdType:       s.BirdType,
		InventoryState: s.InventoryState,
		Active:         s.Active,
	}
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Phone:   s.Phone,
		Address: s.Address,
		Status:  s.Status,
	}
}

func storeToResponse(s *model.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:       s.ID,
		Name:     s.Name,
		Timezone: s.Timezone,
		Status:   s.Status,
	}
}
