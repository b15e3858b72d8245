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

type TransferService interface {
	// Create moves weight between two active stores: TRANSFER_OUT at the
	// source and TRANSFER_IN at the destination in one transaction, with the
	// sufficiency check at the source.
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateTransferRequest) (*dto.TransferResponse, error)
	List(ctx context.Context, storeID, limit int) ([]dto.TransferResponse, error)
}

type transferService struct {
	repo      repository.TransferRepository
	storeRepo repository.StoreRepository
	stock     StockService
}

func NewTransferService(
	repo repository.TransferRepository,
	storeRepo repository.StoreRepository,
	stock StockService,
) TransferService {
	return &transferService{repo: repo, storeRepo: storeRepo, stock: stock}
}

func (s *transferService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if req.FromStoreID == req.ToStoreID {
		return nil, domain.Validationf("source and destination store must differ")
	}
	for _, storeID := range []int{req.FromStoreID, req.ToStoreID} {
		store, err := s.storeRepo.FindByID(ctx, storeID)
		if err != nil {
			return nil, domain.NotFound("store", fmt.Sprint(storeID))
		}
		if store.Status != model.StoreActive {
			return nil, domain.InvalidState("store", store.Status, "transfer stock")
		}
	}

	transfer := &model.StockTransfer{
		FromStoreID:    req.FromStoreID,
		ToStoreID:      req.ToStoreID,
		BirdType:       req.BirdType,
		InventoryState: req.InventoryState,
		Weight:         req.Weight,
		BirdCount:      req.BirdCount,
		Notes:          req.Notes,
		CreatedBy:      actorID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.stock.LockPartition(ctx, tx, req.FromStoreID, req.BirdType, req.InventoryState); err != nil {
			return err
		}
		balance, err := s.stock.Balance(ctx, tx, req.FromStoreID, req.BirdType, req.InventoryState, nil)
		if err != nil {
			return err
		}
		if req.Weight.GreaterThan(balance) {
			return &domain.InsufficientStockError{
				BirdType:  req.BirdType,
				State:     req.InventoryState,
				Available: balance.StringFixed(3),
				Requested: req.Weight.StringFixed(3),
			}
		}

		if err := s.repo.Create(ctx, tx, transfer); err != nil {
			return err
		}

		refType := model.RefTransfer
		refID := transfer.ID
		out := &model.LedgerEntry{
			StoreID:         req.FromStoreID,
			BirdType:        req.BirdType,
			InventoryState:  req.InventoryState,
			QuantityDelta:   req.Weight.Neg(),
			BirdCountChange: -req.BirdCount,
			ReasonCode:      model.ReasonTransferOut,
			ReferenceType:   &refType,
			ReferenceID:     &refID,
			ActorID:         actorID,
		}
		if err := s.stock.AppendEntry(ctx, tx, out); err != nil {
			return err
		}
		in := &model.LedgerEntry{
			StoreID:         req.ToStoreID,
			BirdType:        req.BirdType,
			InventoryState:  req.InventoryState,
			QuantityDelta:   req.Weight,
			BirdCountChange: req.BirdCount,
			ReasonCode:      model.ReasonTransferIn,
			ReferenceType:   &refType,
			ReferenceID:     &refID,
			ActorID:         actorID,
		}
		return s.stock.AppendEntry(ctx, tx, in)
	})
	if txErr != nil {
		return nil, txErr
	}
	return transferToResponse(transfer), nil
}

func (s *transferService) List(ctx context.Context, storeID, limit int) ([]dto.TransferResponse, error) {
	transfers, err := s.repo.List(ctx, storeID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(transfers))
	for i := range transfers {
		items = append(items, *transferToResponse(&transfers[i]))
	}
	return items, nil
}

func transferToResponse(t *model.StockTransfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:             t.ID.String(),
		FromStoreID:    t.FromStoreID,
		ToStoreID:      t.ToStoreID,
		BirdType:       t.BirdType,
		InventoryState: t.InventoryState,
		Weight:         t.Weight,
		BirdCount:      t.BirdCount,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}
