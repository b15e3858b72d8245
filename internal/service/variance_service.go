package service

import (
	"context"
	"time"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VarianceService interface {
	// Approve accepts a PENDING positive variance: credits the partition with
	// a VARIANCE_POSITIVE entry, awards the per-kg bonus to the settlement
	// submitter, and flips the log to APPROVED.
	Approve(ctx context.Context, id, resolverID uuid.UUID, req dto.ResolveVarianceRequest) (*dto.VarianceLogResponse, error)
	// Reject writes the surplus off: no ledger entry, no points, log REJECTED.
	Reject(ctx context.Context, id, resolverID uuid.UUID, req dto.ResolveVarianceRequest) (*dto.VarianceLogResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.VarianceLogResponse, error)
	List(ctx context.Context, filter dto.VarianceFilter) (*dto.VarianceListResponse, error)
	ListBySettlement(ctx context.Context, settlementID uuid.UUID) ([]dto.VarianceLogResponse, error)
}

type varianceService struct {
	repo       repository.VarianceRepository
	reasonRepo repository.ReasonCodeRepository
	pointsRepo repository.PointsRepository
	stock      StockService
}

func NewVarianceService(
	repo repository.VarianceRepository,
	reasonRepo repository.ReasonCodeRepository,
	pointsRepo repository.PointsRepository,
	stock StockService,
) VarianceService {
	return &varianceService{repo: repo, reasonRepo: reasonRepo, pointsRepo: pointsRepo, stock: stock}
}

// resolvable loads the log and checks every precondition shared by approve
// and reject: PENDING, POSITIVE, and the parent settlement not yet LOCKED.
func (s *varianceService) resolvable(ctx context.Context, id uuid.UUID) (*model.VarianceLog, error) {
	vlog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("variance log", id.String())
	}
	if vlog.Status != model.VarianceLogPending {
		return nil, domain.InvalidState("variance log", vlog.Status, "resolve")
	}
	if vlog.VarianceType != model.VariancePositive {
		// negative variances are deducted at submit and never come back here
		return nil, domain.InvalidState("variance log", vlog.VarianceType, "resolve")
	}
	if vlog.Settlement != nil && vlog.Settlement.Status == model.SettlementLocked {
		return nil, domain.InvalidState("settlement", model.SettlementLocked, "resolve variance")
	}
	return vlog, nil
}

func (s *varianceService) Approve(ctx context.Context, id, resolverID uuid.UUID, req dto.ResolveVarianceRequest) (*dto.VarianceLogResponse, error) {
	vlog, err := s.resolvable(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, err := s.reasonRepo.FindByCode(ctx, model.ReasonVariancePositive)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.stock.LockPartition(ctx, tx, vlog.StoreID, vlog.BirdType, vlog.InventoryState); err != nil {
			return err
		}

		refType := model.RefSettlement
		refID := vlog.SettlementID
		entry := &model.LedgerEntry{
			StoreID:        vlog.StoreID,
			BirdType:       vlog.BirdType,
			InventoryState: vlog.InventoryState,
			QuantityDelta:  vlog.VarianceQty, // positive
			ReasonCode:     model.ReasonVariancePositive,
			ReferenceType:  &refType,
			ReferenceID:    &refID,
			ActorID:        resolverID,
		}
		if err := s.stock.AppendEntry(ctx, tx, entry); err != nil {
			return err
		}

		if vlog.Settlement != nil && vlog.Settlement.SubmittedBy != nil {
			points := rc.PointsValue
			if rc.PointsPerKg {
				points = rc.PointsValue.Mul(vlog.VarianceQty.Abs()).Round(2)
			}
			pRefType := "VARIANCE_LOG"
			pRefID := vlog.ID
			if err := s.pointsRepo.Append(ctx, tx, &model.StaffPointEntry{
				UserID:        *vlog.Settlement.SubmittedBy,
				StoreID:       vlog.StoreID,
				Points:        points,
				ReasonCode:    model.ReasonVariancePositive,
				ReferenceType: &pRefType,
				ReferenceID:   &pRefID,
				EffectiveDate: vlog.Settlement.SettlementDate,
			}); err != nil {
				return err
			}
		}

		rows, err := s.repo.Resolve(ctx, tx, id, model.VarianceLogApproved, map[string]any{
			"ledger_entry_id":  entry.ID,
			"resolved_by":      resolverID,
			"resolved_at":      now,
			"resolution_notes": req.Notes,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.Conflictf("variance log %s was resolved concurrently", id)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.stock.Invalidate(ctx, vlog.StoreID)
	return s.Get(ctx, id)
}

func (s *varianceService) Reject(ctx context.Context, id, resolverID uuid.UUID, req dto.ResolveVarianceRequest) (*dto.VarianceLogResponse, error) {
	if _, err := s.resolvable(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.repo.Resolve(ctx, nil, id, model.VarianceLogRejected, map[string]any{
		"resolved_by":      resolverID,
		"resolved_at":      time.Now(),
		"resolution_notes": req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.Conflictf("variance log %s was resolved concurrently", id)
	}
	return s.Get(ctx, id)
}

func (s *varianceService) Get(ctx context.Context, id uuid.UUID) (*dto.VarianceLogResponse, error) {
	vlog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("variance log", id.String())
	}
	return varianceLogToResponse(vlog), nil
}

func (s *varianceService) List(ctx context.Context, filter dto.VarianceFilter) (*dto.VarianceListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VarianceLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, *varianceLogToResponse(&logs[i]))
	}
	return &dto.VarianceListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *varianceService) ListBySettlement(ctx context.Context, settlementID uuid.UUID) ([]dto.VarianceLogResponse, error) {
	logs, err := s.repo.ListBySettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VarianceLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, *varianceLogToResponse(&logs[i]))
	}
	return items, nil
}

func varianceLogToResponse(v *model.VarianceLog) *dto.VarianceLogResponse {
	resp := &dto.VarianceLogResponse{
		ID:              v.ID.String(),
		SettlementID:    v.SettlementID.String(),
		StoreID:         v.StoreID,
		BirdType:        v.BirdType,
		InventoryState:  v.InventoryState,
		ExpectedQty:     v.ExpectedQty,
		DeclaredQty:     v.DeclaredQty,
		VarianceQty:     v.VarianceQty,
		VarianceType:    v.VarianceType,
		Status:          v.Status,
		ResolutionNotes: v.ResolutionNotes,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
	if v.ResolvedAt != nil {
		t := v.ResolvedAt.Format(time.RFC3339)
		resp.ResolvedAt = &t
	}
	return resp
}
