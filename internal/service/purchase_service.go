package service

import (
	"context"
	"fmt"
	"time"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	// Commit flips DRAFT -> COMMITTED and posts the PURCHASE_RECEIVED credit
	// in the same transaction. Any other starting status is InvalidStateError.
	Commit(ctx context.Context, id, actorID uuid.UUID) (*dto.PurchaseResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	storeRepo    repository.StoreRepository
	stock        StockService
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	storeRepo repository.StoreRepository,
	stock StockService,
) PurchaseService {
	return &purchaseService{repo: repo, supplierRepo: supplierRepo, storeRepo: storeRepo, stock: stock}
}

func (s *purchaseService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, domain.NotFound("store", fmt.Sprint(req.StoreID))
	}
	if store.Status != model.StoreActive {
		return nil, domain.InvalidState("store", store.Status, "create purchase")
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, domain.Validationf("invalid supplier_id: %s", req.SupplierID)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, domain.NotFound("supplier", req.SupplierID)
	}
	if supplier.Status != model.SupplierActive {
		return nil, domain.Validationf("supplier %s is inactive", supplier.Name)
	}

	purchase := &model.Purchase{
		StoreID:     req.StoreID,
		SupplierID:  supplierID,
		BirdType:    req.BirdType,
		BirdCount:   req.BirdCount,
		TotalWeight: req.TotalWeight,
		PricePerKg:  req.PricePerKg,
		TotalAmount: req.TotalWeight.Mul(req.PricePerKg).Round(2),
		Status:      model.PurchaseDraft,
		Notes:       req.Notes,
		CreatedBy:   actorID,
	}
	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	purchase.Supplier = supplier
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) Commit(ctx context.Context, id, actorID uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("purchase", id.String())
	}
	if purchase.Status != model.PurchaseDraft {
		return nil, domain.InvalidState("purchase", purchase.Status, "commit")
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.Transition(ctx, tx, id, model.PurchaseDraft, model.PurchaseCommitted, &now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// a concurrent commit or cancel won
			return domain.InvalidState("purchase", "not DRAFT", "commit")
		}

		refType := model.RefPurchase
		refID := purchase.ID
		return s.stock.AppendEntry(ctx, tx, &model.LedgerEntry{
			StoreID:         purchase.StoreID,
			BirdType:        purchase.BirdType,
			InventoryState:  model.StateLive,
			QuantityDelta:   purchase.TotalWeight,
			BirdCountChange: purchase.BirdCount,
			ReasonCode:      model.ReasonPurchaseReceived,
			ReferenceType:   &refType,
			ReferenceID:     &refID,
			ActorID:         actorID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	purchase.Status = model.PurchaseCommitted
	purchase.CommittedAt = &now
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) Cancel(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("purchase", id.String())
	}
	rows, err := s.repo.Transition(ctx, nil, id, model.PurchaseDraft, model.PurchaseCancelled, nil)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.InvalidState("purchase", purchase.Status, "cancel")
	}
	purchase.Status = model.PurchaseCancelled
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("purchase", id.String())
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, *purchaseToResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:          p.ID.String(),
		StoreID:     p.StoreID,
		SupplierID:  p.SupplierID.String(),
		BirdType:    p.BirdType,
		BirdCount:   p.BirdCount,
		TotalWeight: p.TotalWeight,
		PricePerKg:  p.PricePerKg,
		TotalAmount: p.TotalAmount,
		Status:      p.Status,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.Supplier != nil {
		resp.Supplier = p.Supplier.Name
	}
	if p.CommittedAt != nil {
		committed := p.CommittedAt.Format(time.RFC3339)
		resp.CommittedAt = &committed
	}
	return resp
}
