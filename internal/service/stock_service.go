package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const stockCacheTTL = 5 * time.Minute

// StockService is the single gateway to the inventory ledger: every append
// goes through AppendEntry (reason-code and sign validation), every read is
// a fold over the entries. The redis cache only ever holds the "now" matrix
// and is dropped on every append — it is never the source of truth.
type StockService interface {
	// AppendEntry validates the entry against the reason-code vocabulary and
	// inserts it inside the caller's transaction.
	AppendEntry(ctx context.Context, tx *gorm.DB, e *model.LedgerEntry) error
	// Balance folds one partition. Pass the open tx to read under its locks.
	Balance(ctx context.Context, tx *gorm.DB, storeID int, birdType, state string, asOf *time.Time) (decimal.Decimal, error)
	LockPartition(ctx context.Context, tx *gorm.DB, storeID int, birdType, state string) error
	// Matrix derives the full partition grid. asOf nil means "now" and may
	// be served from cache.
	Matrix(ctx context.Context, storeID int, asOf *time.Time) (model.StockMatrix, error)
	// Movement decomposes one business day by movement category.
	Movement(ctx context.Context, storeID int, date time.Time, loc *time.Location) (*dto.MovementResponse, error)
	RecordAdjustment(ctx context.Context, actorID uuid.UUID, req dto.CreateAdjustmentRequest) (*model.LedgerEntry, error)
	ListLedger(ctx context.Context, filter dto.LedgerFilter) (*dto.LedgerListResponse, error)
	Invalidate(ctx context.Context, storeID int)
}

type stockService struct {
	ledgerRepo repository.LedgerRepository
	reasonRepo repository.ReasonCodeRepository
	storeRepo  repository.StoreRepository
	rdb        *redis.Client
}

func NewStockService(
	ledgerRepo repository.LedgerRepository,
	reasonRepo repository.ReasonCodeRepository,
	storeRepo repository.StoreRepository,
	rdb *redis.Client,
) StockService {
	return &stockService{
		ledgerRepo: ledgerRepo,
		reasonRepo: reasonRepo,
		storeRepo:  storeRepo,
		rdb:        rdb,
	}
}

func (s *stockService) AppendEntry(ctx context.Context, tx *gorm.DB, e *model.LedgerEntry) error {
	if !model.ValidBirdType(e.BirdType) {
		return domain.Validationf("unknown bird_type %q", e.BirdType)
	}
	if !model.ValidInventoryState(e.InventoryState) {
		return domain.Validationf("unknown inventory_state %q", e.InventoryState)
	}
	if e.QuantityDelta.IsZero() {
		return domain.Validationf("quantity_delta must be non-zero")
	}

	rc, err := s.reasonRepo.FindByCode(ctx, e.ReasonCode)
	if err != nil {
		return domain.Validationf("unknown reason code %q", e.ReasonCode)
	}
	switch rc.Direction {
	case model.DirectionCredit:
		if e.QuantityDelta.IsNegative() {
			return domain.Validationf("reason %s is credit-only, got negative delta", e.ReasonCode)
		}
	case model.DirectionDebit:
		if e.QuantityDelta.IsPositive() {
			return domain.Validationf("reason %s is debit-only, got positive delta", e.ReasonCode)
		}
	case model.DirectionBoth:
		// any sign
	default:
		return domain.Validationf("reason %s is not a ledger code", e.ReasonCode)
	}

	if err := s.ledgerRepo.Append(ctx, tx, e); err != nil {
		return err
	}
	s.Invalidate(ctx, e.StoreID)
	return nil
}

func (s *stockService) Balance(ctx context.Context, tx *gorm.DB, storeID int, birdType, state string, asOf *time.Time) (decimal.Decimal, error) {
	return s.ledgerRepo.Balance(ctx, tx, storeID, birdType, state, asOf)
}

func (s *stockService) LockPartition(ctx context.Context, tx *gorm.DB, storeID int, birdType, state string) error {
	return s.ledgerRepo.LockPartition(ctx, tx, storeID, birdType, state)
}

func (s *stockService) Matrix(ctx context.Context, storeID int, asOf *time.Time) (model.StockMatrix, error) {
	cacheKey := fmt.Sprintf("stock:matrix:%d", storeID)
	if asOf == nil && s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached model.StockMatrix
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	matrix := model.NewStockMatrix()
	for _, bird := range model.AllBirdTypes {
		for _, state := range model.AllInventoryStates {
			balance, err := s.ledgerRepo.Balance(ctx, nil, storeID, bird, state, asOf)
			if err != nil {
				return nil, err
			}
			matrix[bird][state] = balance
		}
	}

	if asOf == nil && s.rdb != nil {
		if raw, err := json.Marshal(matrix); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, stockCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Int("store_id", storeID).Msg("stock cache set failed")
			}
		}
	}
	return matrix, nil
}

func (s *stockService) Movement(ctx context.Context, storeID int, date time.Time, loc *time.Location) (*dto.MovementResponse, error) {
	if loc == nil {
		loc = time.UTC
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	opening, err := s.Matrix(ctx, storeID, &dayStart)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListRange(ctx, storeID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		purchases, procIn, procOut, wastage, sales, adjustments decimal.Decimal
	}
	buckets := map[string]*bucket{}
	key := func(bird, state string) string { return bird + "/" + state }
	for _, b := range model.AllBirdTypes {
		for _, st := range model.AllInventoryStates {
			buckets[key(b, st)] = &bucket{}
		}
	}

	for _, e := range entries {
		bk, ok := buckets[key(e.BirdType, e.InventoryState)]
		if !ok {
			continue
		}
		switch e.ReasonCode {
		case model.ReasonPurchaseReceived:
			bk.purchases = bk.purchases.Add(e.QuantityDelta)
		case model.ReasonProcessingCredit:
			bk.procIn = bk.procIn.Add(e.QuantityDelta)
		case model.ReasonProcessingDebit:
			bk.procOut = bk.procOut.Add(e.QuantityDelta)
		case model.ReasonWastage:
			bk.wastage = bk.wastage.Add(e.QuantityDelta)
		case model.ReasonSaleDebit:
			bk.sales = bk.sales.Add(e.QuantityDelta)
		default:
			// manual adjustments, variance resolutions, transfers
			bk.adjustments = bk.adjustments.Add(e.QuantityDelta)
		}
	}

	resp := &dto.MovementResponse{StoreID: storeID, Date: dayStart.Format("2006-01-02")}
	for _, b := range model.AllBirdTypes {
		for _, st := range model.AllInventoryStates {
			bk := buckets[key(b, st)]
			open := opening.Get(b, st)
			closing := open.Add(bk.purchases).Add(bk.procIn).Add(bk.procOut).
				Add(bk.sales).Add(bk.adjustments) // wastage rows do not affect stock
			resp.Rows = append(resp.Rows, dto.MovementRow{
				BirdType:       b,
				InventoryState: st,
				Opening:        open,
				Purchases:      bk.purchases,
				ProcessingIn:   bk.procIn,
				ProcessingOut:  bk.procOut,
				Wastage:        bk.wastage,
				Sales:          bk.sales,
				Adjustments:    bk.adjustments,
				Closing:        closing,
			})
		}
	}
	return resp, nil
}

func (s *stockService) RecordAdjustment(ctx context.Context, actorID uuid.UUID, req dto.CreateAdjustmentRequest) (*model.LedgerEntry, error) {
	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, domain.NotFound("store", fmt.Sprint(req.StoreID))
	}
	if store.Status != model.StoreActive {
		return nil, domain.InvalidState("store", store.Status, "record adjustment")
	}

	refType := model.RefAdjustment
	notes := req.Notes
	entry := &model.LedgerEntry{
		StoreID:         req.StoreID,
		BirdType:        req.BirdType,
		InventoryState:  req.InventoryState,
		QuantityDelta:   req.QuantityDelta,
		BirdCountChange: req.BirdCountDelta,
		ReasonCode:      model.ReasonManualAdjustment,
		ReferenceType:   &refType,
		ActorID:         actorID,
		Notes:           &notes,
	}

	txErr := runTx(ctx, s.ledgerRepo.DB(), func(tx *gorm.DB) error {
		if err := s.LockPartition(ctx, tx, req.StoreID, req.BirdType, req.InventoryState); err != nil {
			return err
		}
		if req.QuantityDelta.IsNegative() {
			balance, err := s.Balance(ctx, tx, req.StoreID, req.BirdType, req.InventoryState, nil)
			if err != nil {
				return err
			}
			if req.QuantityDelta.Abs().GreaterThan(balance) {
				return &domain.InsufficientStockError{
					BirdType:  req.BirdType,
					State:     req.InventoryState,
					Available: balance.StringFixed(3),
					Requested: req.QuantityDelta.Abs().StringFixed(3),
				}
			}
		}
		return s.AppendEntry(ctx, tx, entry)
	})
	if txErr != nil {
		return nil, txErr
	}
	return entry, nil
}

func (s *stockService) ListLedger(ctx context.Context, filter dto.LedgerFilter) (*dto.LedgerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	entries, total, err := s.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, ledgerEntryToResponse(&e))
	}
	return &dto.LedgerListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stockService) Invalidate(ctx context.Context, storeID int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf("stock:matrix:%d", storeID)).Err(); err != nil {
		log.Warn().Err(err).Int("store_id", storeID).Msg("stock cache invalidation failed")
	}
}

func ledgerEntryToResponse(e *model.LedgerEntry) dto.LedgerEntryResponse {
	var refID *string
	if e.ReferenceID != nil {
		id := e.ReferenceID.String()
		refID = &id
	}
	return dto.LedgerEntryResponse{
		ID:              e.ID.String(),
		StoreID:         e.StoreID,
		BirdType:        e.BirdType,
		InventoryState:  e.InventoryState,
		QuantityDelta:   e.QuantityDelta,
		BirdCountChange: e.BirdCountChange,
		ReasonCode:      e.ReasonCode,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     refID,
		Notes:           e.Notes,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
