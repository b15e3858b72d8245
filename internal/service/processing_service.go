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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type ProcessingService interface {
	// Create posts one processing run: PROCESSING_DEBIT on LIVE,
	// PROCESSING_CREDIT on the target state, and the WASTAGE audit row, all
	// in one transaction under the partition locks. A repeated idempotency
	// key returns the stored run.
	Create(ctx context.Context, operatorID uuid.UUID, req dto.CreateProcessingRequest) (*dto.ProcessingResponse, error)
	// Calculate previews output and wastage without posting anything.
	Calculate(ctx context.Context, req dto.CalculateProcessingRequest) (*dto.CalculateProcessingResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProcessingResponse, error)
	List(ctx context.Context, filter dto.ProcessingFilter) (*dto.ProcessingListResponse, error)

	CreateWastageConfig(ctx context.Context, actorID uuid.UUID, req dto.CreateWastageConfigRequest) (*dto.WastageConfigResponse, error)
	ListWastageConfigs(ctx context.Context) ([]dto.WastageConfigResponse, error)
	DeactivateWastageConfig(ctx context.Context, id uuid.UUID) error
}

type processingService struct {
	repo        repository.ProcessingRepository
	wastageRepo repository.WastageConfigRepository
	storeRepo   repository.StoreRepository
	stock       StockService
}

func NewProcessingService(
	repo repository.ProcessingRepository,
	wastageRepo repository.WastageConfigRepository,
	storeRepo repository.StoreRepository,
	stock StockService,
) ProcessingService {
	return &processingService{repo: repo, wastageRepo: wastageRepo, storeRepo: storeRepo, stock: stock}
}

// resolveWastage finds the percentage in force and derives the output split.
// All rounding happens on the wastage side so output + wastage == input
// exactly at ledger precision.
func (s *processingService) resolveWastage(ctx context.Context, birdType, outputState string, input decimal.Decimal) (pct, output, wastage decimal.Decimal, err error) {
	cfg, findErr := s.wastageRepo.ActiveFor(ctx, birdType, outputState, time.Now())
	if findErr != nil {
		return pct, output, wastage, domain.Configurationf(
			"no active wastage percentage for %s -> %s", birdType, outputState)
	}
	pct = cfg.Percentage
	wastage = input.Mul(pct).Div(hundred).Round(3)
	output = input.Sub(wastage)
	return pct, output, wastage, nil
}

func (s *processingService) Create(ctx context.Context, operatorID uuid.UUID, req dto.CreateProcessingRequest) (*dto.ProcessingResponse, error) {
	if req.OutputState == model.StateLive {
		return nil, domain.Validationf("output_state cannot be LIVE")
	}
	if !req.InputWeight.IsPositive() {
		return nil, domain.Validationf("input_weight must be positive")
	}

	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, domain.NotFound("store", fmt.Sprint(req.StoreID))
	}
	if store.Status != model.StoreActive {
		return nil, domain.InvalidState("store", store.Status, "run processing")
	}

	// Idempotent replay
	if existing, err := s.repo.FindByIdempotencyKey(ctx, req.StoreID, req.IdempotencyKey); err == nil {
		return processingToResponse(existing), nil
	}

	pct, output, wastage, err := s.resolveWastage(ctx, req.BirdType, req.OutputState, req.InputWeight)
	if err != nil {
		return nil, err
	}

	run := &model.ProcessingRun{
		StoreID:        req.StoreID,
		BirdType:       req.BirdType,
		OutputState:    req.OutputState,
		InputWeight:    req.InputWeight,
		OutputWeight:   output,
		WastageWeight:  wastage,
		WastagePercent: pct,
		BirdCount:      req.BirdCount,
		IdempotencyKey: req.IdempotencyKey,
		OperatorID:     operatorID,
		Notes:          req.Notes,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock both partitions in grid order so concurrent runs serialize.
		if err := s.stock.LockPartition(ctx, tx, req.StoreID, req.BirdType, model.StateLive); err != nil {
			return err
		}
		if err := s.stock.LockPartition(ctx, tx, req.StoreID, req.BirdType, req.OutputState); err != nil {
			return err
		}

		liveBalance, err := s.stock.Balance(ctx, tx, req.StoreID, req.BirdType, model.StateLive, nil)
		if err != nil {
			return err
		}
		if req.InputWeight.GreaterThan(liveBalance) {
			return &domain.InsufficientStockError{
				BirdType:  req.BirdType,
				State:     model.StateLive,
				Available: liveBalance.StringFixed(3),
				Requested: req.InputWeight.StringFixed(3),
			}
		}

		if err := s.repo.Create(ctx, tx, run); err != nil {
			return err
		}

		refType := model.RefProcessing
		refID := run.ID
		entries := []*model.LedgerEntry{
			{
				StoreID:         req.StoreID,
				BirdType:        req.BirdType,
				InventoryState:  model.StateLive,
				QuantityDelta:   req.InputWeight.Neg(),
				BirdCountChange: -req.BirdCount,
				ReasonCode:      model.ReasonProcessingDebit,
			},
			{
				StoreID:         req.StoreID,
				BirdType:        req.BirdType,
				InventoryState:  req.OutputState,
				QuantityDelta:   output,
				BirdCountChange: req.BirdCount,
				ReasonCode:      model.ReasonProcessingCredit,
			},
			{
				StoreID:        req.StoreID,
				BirdType:       req.BirdType,
				InventoryState: model.StateLive,
				QuantityDelta:  wastage.Neg(),
				ReasonCode:     model.ReasonWastage,
			},
		}
		for _, e := range entries {
			e.ReferenceType = &refType
			e.ReferenceID = &refID
			e.ActorID = operatorID
			if err := s.stock.AppendEntry(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		// a concurrent insert with the same key may have won the unique index
		if existing, err := s.repo.FindByIdempotencyKey(ctx, req.StoreID, req.IdempotencyKey); err == nil {
			return processingToResponse(existing), nil
		}
		return nil, txErr
	}
	return processingToResponse(run), nil
}

func (s *processingService) Calculate(ctx context.Context, req dto.CalculateProcessingRequest) (*dto.CalculateProcessingResponse, error) {
	pct, output, wastage, err := s.resolveWastage(ctx, req.BirdType, req.OutputState, req.InputWeight)
	if err != nil {
		return nil, err
	}
	return &dto.CalculateProcessingResponse{
		InputWeight:    req.InputWeight,
		OutputWeight:   output,
		WastageWeight:  wastage,
		WastagePercent: pct,
	}, nil
}

func (s *processingService) Get(ctx context.Context, id uuid.UUID) (*dto.ProcessingResponse, error) {
	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("processing run", id.String())
	}
	return processingToResponse(run), nil
}

func (s *processingService) List(ctx context.Context, filter dto.ProcessingFilter) (*dto.ProcessingListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	runs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProcessingResponse, 0, len(runs))
	for i := range runs {
		items = append(items, *processingToResponse(&runs[i]))
	}
	return &dto.ProcessingListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *processingService) CreateWastageConfig(ctx context.Context, actorID uuid.UUID, req dto.CreateWastageConfigRequest) (*dto.WastageConfigResponse, error) {
	if req.TargetState == model.StateLive {
		return nil, domain.Validationf("target_state cannot be LIVE")
	}
	effective, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return nil, domain.Validationf("invalid effective_date: %s", req.EffectiveDate)
	}
	cfg := &model.WastageConfig{
		BirdType:      req.BirdType,
		TargetState:   req.TargetState,
		Percentage:    req.Percentage,
		EffectiveDate: effective,
		IsActive:      true,
		CreatedBy:     actorID,
	}
	if err := s.wastageRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return wastageConfigToResponse(cfg), nil
}

func (s *processingService) ListWastageConfigs(ctx context.Context) ([]dto.WastageConfigResponse, error) {
	configs, err := s.wastageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WastageConfigResponse, 0, len(configs))
	for i := range configs {
		items = append(items, *wastageConfigToResponse(&configs[i]))
	}
	return items, nil
}

func (s *processingService) DeactivateWastageConfig(ctx context.Context, id uuid.UUID) error {
	rows, err := s.wastageRepo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFound("wastage config", id.String())
	}
	return nil
}

func processingToResponse(r *model.ProcessingRun) *dto.ProcessingResponse {
	return &dto.ProcessingResponse{
		ID:             r.ID.String(),
		StoreID:        r.StoreID,
		BirdType:       r.BirdType,
		OutputState:    r.OutputState,
		InputWeight:    r.InputWeight,
		OutputWeight:   r.OutputWeight,
		WastageWeight:  r.WastageWeight,
		WastagePercent: r.WastagePercent,
		BirdCount:      r.BirdCount,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

func wastageConfigToResponse(w *model.WastageConfig) *dto.WastageConfigResponse {
	return &dto.WastageConfigResponse{
		ID:            w.ID.String(),
		BirdType:      w.BirdType,
		TargetState:   w.TargetState,
		Percentage:    w.Percentage,
		EffectiveDate: w.EffectiveDate.Format("2006-01-02"),
		IsActive:      w.IsActive,
	}
}
