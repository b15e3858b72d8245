package service

import (
	"context"
	"fmt"
	"time"

	"poultrycore/internal/config"
	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"
	"poultrycore/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettlementService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateSettlementRequest) (*dto.SettlementResponse, error)
	// Submit freezes the declaration, computes the expected stock and cash,
	// writes the variance snapshot and the variance logs, and deducts
	// shortages — all in one transaction guarded by an optimistic
	// DRAFT check.
	Submit(ctx context.Context, id, actorID uuid.UUID, req dto.SubmitSettlementRequest) (*dto.SubmitSettlementResponse, error)
	// Approve requires zero PENDING variance logs.
	Approve(ctx context.Context, id, approverID uuid.UUID) (*dto.SettlementResponse, error)
	// Lock is terminal: no resolution, adjustment, or resubmission may touch
	// the settlement afterwards.
	Lock(ctx context.Context, id uuid.UUID) (*dto.SettlementResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SettlementResponse, error)
	List(ctx context.Context, filter dto.SettlementFilter) (*dto.SettlementListResponse, error)
	// ExpectedFor previews the expected side for managers. Never exposed to
	// the counting staff before submit.
	ExpectedFor(ctx context.Context, storeID int, date time.Time) (model.StockMatrix, model.CashSummary, error)
}

type settlementService struct {
	repo         repository.SettlementRepository
	varianceRepo repository.VarianceRepository
	saleRepo     repository.SaleRepository
	storeRepo    repository.StoreRepository
	pointsRepo   repository.PointsRepository
	reasonRepo   repository.ReasonCodeRepository
	stock        StockService
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
}

func NewSettlementService(
	repo repository.SettlementRepository,
	varianceRepo repository.VarianceRepository,
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	pointsRepo repository.PointsRepository,
	reasonRepo repository.ReasonCodeRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) SettlementService {
	return &settlementService{
		repo:         repo,
		varianceRepo: varianceRepo,
		saleRepo:     saleRepo,
		storeRepo:    storeRepo,
		pointsRepo:   pointsRepo,
		reasonRepo:   reasonRepo,
		stock:        stock,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// classifyVariance buckets declared-expected against the tolerance band.
func classifyVariance(variance, tolerance decimal.Decimal) string {
	if variance.Abs().LessThanOrEqual(tolerance) {
		return model.VarianceZero
	}
	if variance.IsPositive() {
		return model.VariancePositive
	}
	return model.VarianceNegative
}

func (s *settlementService) storeDay(ctx context.Context, storeID int, date time.Time) (start, end time.Time, err error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return start, end, domain.NotFound("store", fmt.Sprint(storeID))
	}
	loc, locErr := time.LoadLocation(store.Timezone)
	if locErr != nil {
		loc = time.UTC
	}
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour), nil
}

func (s *settlementService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateSettlementRequest) (*dto.SettlementResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, domain.NotFound("store", fmt.Sprint(req.StoreID))
	}
	if store.Status != model.StoreActive {
		return nil, domain.InvalidState("store", store.Status, "open settlement")
	}

	date, err := time.Parse("2006-01-02", req.SettlementDate)
	if err != nil {
		return nil, domain.Validationf("invalid settlement_date: %s", req.SettlementDate)
	}
	if existing, err := s.repo.FindByStoreDate(ctx, req.StoreID, date); err == nil {
		return nil, domain.Conflictf("settlement for store %d on %s already exists (status %s)",
			req.StoreID, req.SettlementDate, existing.Status)
	}

	settlement := &model.Settlement{
		StoreID:        req.StoreID,
		SettlementDate: date,
		Status:         model.SettlementDraft,
		CreatedBy:      actorID,
	}
	if err := s.repo.Create(ctx, settlement); err != nil {
		// unique (store, date) lost a race
		return nil, domain.Conflictf("settlement for store %d on %s already exists", req.StoreID, req.SettlementDate)
	}
	return settlementToResponse(settlement), nil
}

func (s *settlementService) Submit(ctx context.Context, id, actorID uuid.UUID, req dto.SubmitSettlementRequest) (*dto.SubmitSettlementResponse, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("settlement", id.String())
	}
	if settlement.Status != model.SettlementDraft {
		return nil, domain.InvalidState("settlement", settlement.Status, "submit")
	}

	_, dayEnd, err := s.storeDay(ctx, settlement.StoreID, settlement.SettlementDate)
	if err != nil {
		return nil, err
	}
	dayStart := dayEnd.Add(-24 * time.Hour)

	expectedStock, err := s.stock.Matrix(ctx, settlement.StoreID, &dayEnd)
	if err != nil {
		return nil, err
	}
	expectedCash, err := s.saleRepo.SummaryByMethod(ctx, settlement.StoreID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	// Normalize the declaration over the full grid: an omitted partition is
	// a declaration of zero.
	declared := model.NewStockMatrix()
	for bird, row := range req.DeclaredStock {
		if !model.ValidBirdType(bird) {
			return nil, domain.Validationf("unknown bird_type %q in declaration", bird)
		}
		for state, qty := range row {
			if !model.ValidInventoryState(state) {
				return nil, domain.Validationf("unknown inventory_state %q in declaration", state)
			}
			if qty.IsNegative() {
				return nil, domain.Validationf("declared quantity cannot be negative")
			}
			declared[bird][state] = qty
		}
	}

	tolerance := decimal.NewFromFloat(s.cfg.VarianceToleranceKg)
	varianceMatrix := model.VarianceMatrix{}
	allZero := true
	totalNegativeKg := decimal.Zero

	type pendingCell struct {
		bird, state string
		cell        model.VarianceCell
	}
	var discrepancies []pendingCell

	for _, bird := range model.AllBirdTypes {
		varianceMatrix[bird] = map[string]model.VarianceCell{}
		for _, state := range model.AllInventoryStates {
			expected := expectedStock.Get(bird, state)
			decl := declared.Get(bird, state)
			diff := decl.Sub(expected)
			cell := model.VarianceCell{
				Expected: expected,
				Declared: decl,
				Variance: diff,
				Type:     classifyVariance(diff, tolerance),
			}
			varianceMatrix[bird][state] = cell
			if cell.Type != model.VarianceZero {
				allZero = false
				discrepancies = append(discrepancies, pendingCell{bird: bird, state: state, cell: cell})
				if cell.Type == model.VarianceNegative {
					totalNegativeKg = totalNegativeKg.Add(diff.Abs())
				}
			}
		}
	}

	expectedDrawer := expectedCash[model.PaymentCash].Sub(req.Expenses)
	cashVariance := req.DeclaredCash.Sub(expectedDrawer)

	now := time.Now()
	resp := &dto.SubmitSettlementResponse{}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.Transition(ctx, tx, id, model.SettlementDraft, model.SettlementSubmitted, map[string]any{
			"declared_stock":      declared,
			"declared_cash":       req.DeclaredCash,
			"declared_card":       req.DeclaredCard,
			"declared_bank":       req.DeclaredBank,
			"expenses":            req.Expenses,
			"expected_stock":      expectedStock,
			"expected_cash":       expectedCash,
			"calculated_variance": varianceMatrix,
			"cash_variance":       cashVariance,
			"notes":               req.Notes,
			"submitted_by":        actorID,
			"submitted_at":        now,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			// a concurrent submit won the optimistic check
			return domain.Conflictf("settlement %s was submitted concurrently", id)
		}

		for _, d := range discrepancies {
			vlog := &model.VarianceLog{
				SettlementID:   id,
				StoreID:        settlement.StoreID,
				BirdType:       d.bird,
				InventoryState: d.state,
				ExpectedQty:    d.cell.Expected,
				DeclaredQty:    d.cell.Declared,
				VarianceQty:    d.cell.Variance,
				VarianceType:   d.cell.Type,
				Status:         model.VarianceLogPending,
			}

			if d.cell.Type == model.VarianceNegative {
				// Shortage: deduct immediately and irrevocably.
				if err := s.stock.LockPartition(ctx, tx, settlement.StoreID, d.bird, d.state); err != nil {
					return err
				}
				refType := model.RefSettlement
				refID := id
				entry := &model.LedgerEntry{
					StoreID:        settlement.StoreID,
					BirdType:       d.bird,
					InventoryState: d.state,
					QuantityDelta:  d.cell.Variance, // negative
					ReasonCode:     model.ReasonVarianceNegative,
					ReferenceType:  &refType,
					ReferenceID:    &refID,
					ActorID:        actorID,
				}
				if err := s.stock.AppendEntry(ctx, tx, entry); err != nil {
					return err
				}

				vlog.Status = model.VarianceLogDeducted
				vlog.LedgerEntryID = &entry.ID
				vlog.ResolvedBy = &actorID
				vlog.ResolvedAt = &now
				resp.DeductedNegative++
			} else {
				resp.PendingPositive++
			}

			if err := s.varianceRepo.Create(ctx, tx, vlog); err != nil {
				return err
			}

			if vlog.Status == model.VarianceLogDeducted {
				if err := s.appendVariancePoints(ctx, tx, settlement, actorID, vlog); err != nil {
					return err
				}
			}
		}

		if allZero {
			resp.ZeroPartitions = len(model.AllBirdTypes) * len(model.AllInventoryStates)
			if err := s.appendFixedPoints(ctx, tx, settlement, actorID,
				model.ReasonSettlementZeroVariance, "clean settlement"); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.stock.Invalidate(ctx, settlement.StoreID)

	if s.dispatcher != nil && totalNegativeKg.GreaterThanOrEqual(decimal.NewFromFloat(s.cfg.CriticalVarianceKg)) {
		_ = s.dispatcher.EnqueueVarianceAlert(ctx, worker.VarianceAlertPayload{
			SettlementID: id.String(),
			StoreID:      settlement.StoreID,
			Date:         settlement.SettlementDate.Format("2006-01-02"),
			NegativeKg:   totalNegativeKg.StringFixed(3),
		})
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp.Settlement = *settlementToResponse(updated)
	resp.VarianceLogsTotal = resp.PendingPositive + resp.DeductedNegative
	return resp, nil
}

// appendVariancePoints posts the per-kg point consequence of a resolved
// variance log against the settlement submitter.
func (s *settlementService) appendVariancePoints(ctx context.Context, tx *gorm.DB, settlement *model.Settlement, userID uuid.UUID, vlog *model.VarianceLog) error {
	reason := model.ReasonVarianceNegative
	if vlog.VarianceType == model.VariancePositive {
		reason = model.ReasonVariancePositive
	}
	rc, err := s.reasonRepo.FindByCode(ctx, reason)
	if err != nil {
		return err
	}
	points := rc.PointsValue
	if rc.PointsPerKg {
		points = rc.PointsValue.Mul(vlog.VarianceQty.Abs()).Round(2)
	}
	refType := "VARIANCE_LOG"
	refID := vlog.ID
	return s.pointsRepo.Append(ctx, tx, &model.StaffPointEntry{
		UserID:        userID,
		StoreID:       settlement.StoreID,
		Points:        points,
		ReasonCode:    reason,
		ReferenceType: &refType,
		ReferenceID:   &refID,
		EffectiveDate: settlement.SettlementDate,
	})
}

func (s *settlementService) appendFixedPoints(ctx context.Context, tx *gorm.DB, settlement *model.Settlement, userID uuid.UUID, reason, note string) error {
	rc, err := s.reasonRepo.FindByCode(ctx, reason)
	if err != nil {
		return err
	}
	refType := model.RefSettlement
	refID := settlement.ID
	return s.pointsRepo.Append(ctx, tx, &model.StaffPointEntry{
		UserID:        userID,
		StoreID:       settlement.StoreID,
		Points:        rc.PointsValue,
		ReasonCode:    reason,
		ReferenceType: &refType,
		ReferenceID:   &refID,
		Notes:         &note,
		EffectiveDate: settlement.SettlementDate,
	})
}

func (s *settlementService) Approve(ctx context.Context, id, approverID uuid.UUID) (*dto.SettlementResponse, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("settlement", id.String())
	}
	if settlement.Status != model.SettlementSubmitted {
		return nil, domain.InvalidState("settlement", settlement.Status, "approve")
	}

	pending, err := s.varianceRepo.CountPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, domain.InvalidState("settlement",
			fmt.Sprintf("SUBMITTED with %d pending variance(s)", pending), "approve")
	}

	now := time.Now()
	rows, err := s.repo.Transition(ctx, nil, id, model.SettlementSubmitted, model.SettlementApproved, map[string]any{
		"approved_by": approverID,
		"approved_at": now,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.Conflictf("settlement %s changed state concurrently", id)
	}
	return s.Get(ctx, id)
}

func (s *settlementService) Lock(ctx context.Context, id uuid.UUID) (*dto.SettlementResponse, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("settlement", id.String())
	}
	if settlement.Status != model.SettlementApproved {
		return nil, domain.InvalidState("settlement", settlement.Status, "lock")
	}
	rows, err := s.repo.Transition(ctx, nil, id, model.SettlementApproved, model.SettlementLocked, map[string]any{
		"locked_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.Conflictf("settlement %s changed state concurrently", id)
	}
	return s.Get(ctx, id)
}

func (s *settlementService) Get(ctx context.Context, id uuid.UUID) (*dto.SettlementResponse, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("settlement", id.String())
	}
	return settlementToResponse(settlement), nil
}

func (s *settlementService) List(ctx context.Context, filter dto.SettlementFilter) (*dto.SettlementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	settlements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SettlementResponse, 0, len(settlements))
	for i := range settlements {
		items = append(items, *settlementToResponse(&settlements[i]))
	}
	return &dto.SettlementListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *settlementService) ExpectedFor(ctx context.Context, storeID int, date time.Time) (model.StockMatrix, model.CashSummary, error) {
	dayStart, dayEnd, err := s.storeDay(ctx, storeID, date)
	if err != nil {
		return nil, nil, err
	}
	matrix, err := s.stock.Matrix(ctx, storeID, &dayEnd)
	if err != nil {
		return nil, nil, err
	}
	cash, err := s.saleRepo.SummaryByMethod(ctx, storeID, dayStart, dayEnd)
	if err != nil {
		return nil, nil, err
	}
	return matrix, cash, nil
}

func settlementToResponse(m *model.Settlement) *dto.SettlementResponse {
	resp := &dto.SettlementResponse{
		ID:             m.ID.String(),
		StoreID:        m.StoreID,
		SettlementDate: m.SettlementDate.Format("2006-01-02"),
		Status:         m.Status,
		DeclaredStock:  m.DeclaredStock,
		DeclaredCash:   m.DeclaredCash,
		DeclaredCard:   m.DeclaredCard,
		DeclaredBank:   m.DeclaredBank,
		Expenses:       m.Expenses,
		ExpectedStock:  m.ExpectedStock,
		ExpectedCash:   m.ExpectedCash,
		CashVariance:   m.CashVariance,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.CalculatedVariance != nil {
		resp.CalculatedVariance = map[string]map[string]dto.VarianceCellResponse{}
		for bird, row := range m.CalculatedVariance {
			resp.CalculatedVariance[bird] = map[string]dto.VarianceCellResponse{}
			for state, cell := range row {
				resp.CalculatedVariance[bird][state] = dto.VarianceCellResponse{
					Expected: cell.Expected,
					Declared: cell.Declared,
					Variance: cell.Variance,
					Type:     cell.Type,
				}
			}
		}
	}
	if m.SubmittedAt != nil {
		v := m.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if m.ApprovedAt != nil {
		v := m.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if m.LockedAt != nil {
		v := m.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &v
	}
	return resp
}
