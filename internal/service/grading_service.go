package service

import (
	"context"
	"time"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GradingService interface {
	// Generate recomputes the month's performance rows for every staff member
	// with activity at the store. Locked rows are skipped, everything else is
	// replaced wholesale.
	Generate(ctx context.Context, req dto.GenerateGradesRequest) (*dto.GenerateGradesResponse, error)
	// Lock freezes the month for payroll. Calling it again is a no-op.
	Lock(ctx context.Context, req dto.LockGradesRequest) (int64, error)
	ListPerformance(ctx context.Context, storeID, year, month int) ([]dto.PerformanceResponse, error)
	MyPerformance(ctx context.Context, userID uuid.UUID, storeID, year, month int) (*dto.PerformanceResponse, error)
	MyPoints(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.PointEntryResponse, error)
	AwardPoints(ctx context.Context, actorID uuid.UUID, req dto.AwardPointsRequest) error

	GetConfig(ctx context.Context, storeID *int) ([]dto.GradingConfigResponse, error)
	UpdateConfig(ctx context.Context, req dto.UpdateGradingConfigRequest) error
	ListReasonCodes(ctx context.Context) ([]dto.ReasonCodeResponse, error)
	UpdateReasonCode(ctx context.Context, code string, req dto.UpdateReasonCodeRequest) error
}

type gradingService struct {
	perfRepo       repository.PerformanceRepository
	pointsRepo     repository.PointsRepository
	configRepo     repository.GradingConfigRepository
	reasonRepo     repository.ReasonCodeRepository
	saleRepo       repository.SaleRepository
	processingRepo repository.ProcessingRepository
	varianceRepo   repository.VarianceRepository
}

func NewGradingService(
	perfRepo repository.PerformanceRepository,
	pointsRepo repository.PointsRepository,
	configRepo repository.GradingConfigRepository,
	reasonRepo repository.ReasonCodeRepository,
	saleRepo repository.SaleRepository,
	processingRepo repository.ProcessingRepository,
	varianceRepo repository.VarianceRepository,
) GradingService {
	return &gradingService{
		perfRepo:       perfRepo,
		pointsRepo:     pointsRepo,
		configRepo:     configRepo,
		reasonRepo:     reasonRepo,
		saleRepo:       saleRepo,
		processingRepo: processingRepo,
		varianceRepo:   varianceRepo,
	}
}

// gradeLadder is the validated, descending score-threshold ladder.
type gradeLadder struct {
	thresholds []struct {
		grade string
		min   decimal.Decimal
	}
}

// buildLadder reads the five GRADE_*_MIN keys and rejects a ladder that is
// not strictly descending.
func buildLadder(values map[string]decimal.Decimal) (*gradeLadder, error) {
	keys := []struct {
		grade string
		key   string
	}{
		{model.GradeAPlus, model.CfgGradeAPlusMin},
		{model.GradeA, model.CfgGradeAMin},
		{model.GradeB, model.CfgGradeBMin},
		{model.GradeC, model.CfgGradeCMin},
		{model.GradeD, model.CfgGradeDMin},
	}
	ladder := &gradeLadder{}
	var prev *decimal.Decimal
	for _, k := range keys {
		min, ok := values[k.key]
		if !ok {
			return nil, domain.Configurationf("missing grading threshold %s", k.key)
		}
		if prev != nil && min.GreaterThanOrEqual(*prev) {
			return nil, domain.Configurationf(
				"grading thresholds must be strictly descending: %s (%s) >= previous (%s)",
				k.key, min, prev)
		}
		prev = &min
		ladder.thresholds = append(ladder.thresholds, struct {
			grade string
			min   decimal.Decimal
		}{k.grade, min})
	}
	return ladder, nil
}

// gradeFor walks the ladder top-down; a score below every threshold is E.
func (l *gradeLadder) gradeFor(score decimal.Decimal) string {
	for _, t := range l.thresholds {
		if score.GreaterThanOrEqual(t.min) {
			return t.grade
		}
	}
	return model.GradeE
}

func monthWindow(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *gradingService) Generate(ctx context.Context, req dto.GenerateGradesRequest) (*dto.GenerateGradesResponse, error) {
	values, err := s.configRepo.ValuesFor(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	ladder, err := buildLadder(values)
	if err != nil {
		return nil, err
	}

	bonusRates := map[string]decimal.Decimal{
		model.GradeAPlus: values[model.CfgBonusRateAPlus],
		model.GradeA:     values[model.CfgBonusRateA],
		model.GradeB:     values[model.CfgBonusRateB],
	}
	penaltyRates := map[string]decimal.Decimal{
		model.GradeC: values[model.CfgPenaltyRateC],
		model.GradeD: values[model.CfgPenaltyRateD],
		model.GradeE: values[model.CfgPenaltyRateE],
	}
	bonusCap := values[model.CfgBonusCapMonthly]
	penaltyCap := values[model.CfgPenaltyCapMonthly]

	from, to := monthWindow(req.Year, req.Month)

	pointRows, err := s.pointsRepo.SumByUser(ctx, req.StoreID, from, to)
	if err != nil {
		return nil, err
	}
	saleWeights, err := s.saleRepo.ItemWeightByCashier(ctx, req.StoreID, from, to)
	if err != nil {
		return nil, err
	}
	processingWeights, err := s.processingRepo.InputWeightByOperator(ctx, req.StoreID, from, to)
	if err != nil {
		return nil, err
	}
	varianceKg, err := s.varianceRepo.KgBySubmitter(ctx, req.StoreID, from, to)
	if err != nil {
		return nil, err
	}
	zeroDays, err := s.pointsRepo.CountByUserReason(ctx, req.StoreID, model.ReasonSettlementZeroVariance, from, to)
	if err != nil {
		return nil, err
	}

	// Fold everything into per-user accumulators. The union of all sources
	// decides who gets a row: points without weight, weight without points,
	// both count as activity.
	type accum struct {
		points     decimal.Decimal
		weight     decimal.Decimal
		positiveKg decimal.Decimal
		negativeKg decimal.Decimal
		zeroDays   int
	}
	users := map[uuid.UUID]*accum{}
	get := func(id uuid.UUID) *accum {
		if a, ok := users[id]; ok {
			return a
		}
		a := &accum{}
		users[id] = a
		return a
	}
	for _, row := range pointRows {
		get(row.UserID).points = row.Points
	}
	for _, row := range saleWeights {
		a := get(row.UserID)
		a.weight = a.weight.Add(row.Weight)
	}
	for _, row := range processingWeights {
		a := get(row.UserID)
		a.weight = a.weight.Add(row.Weight)
	}
	for _, row := range varianceKg {
		a := get(row.UserID)
		switch row.VarianceType {
		case model.VariancePositive:
			a.positiveKg = a.positiveKg.Add(row.Kg)
		case model.VarianceNegative:
			a.negativeKg = a.negativeKg.Add(row.Kg)
		}
	}
	for _, row := range zeroDays {
		get(row.UserID).zeroDays = row.Count
	}

	now := time.Now()
	resp := &dto.GenerateGradesResponse{}
	for userID, a := range users {
		// Normalized score: points per kg handled. Zero handled weight gives
		// a score of 0, not the raw point total.
		score := decimal.Zero
		if a.weight.IsPositive() {
			score = a.points.Div(a.weight).Round(4)
		}
		grade := ladder.gradeFor(score)

		bonus := decimal.Zero
		if rate, ok := bonusRates[grade]; ok && rate.IsPositive() {
			bonus = a.weight.Mul(rate).Round(2)
			if bonusCap.IsPositive() && bonus.GreaterThan(bonusCap) {
				bonus = bonusCap
			}
		}
		penalty := decimal.Zero
		if rate, ok := penaltyRates[grade]; ok && rate.IsPositive() {
			penalty = a.negativeKg.Mul(rate).Round(2)
			if penaltyCap.IsPositive() && penalty.GreaterThan(penaltyCap) {
				penalty = penaltyCap
			}
		}

		perf := &model.StaffMonthlyPerformance{
			UserID:             userID,
			StoreID:            req.StoreID,
			Year:               req.Year,
			Month:              req.Month,
			TotalPoints:        a.points,
			WeightHandled:      a.weight,
			NormalizedScore:    score,
			Grade:              grade,
			BonusAmount:        bonus,
			PenaltyAmount:      penalty,
			NetIncentive:       bonus.Sub(penalty),
			PositiveVarianceKg: a.positiveKg,
			NegativeVarianceKg: a.negativeKg,
			ZeroVarianceDays:   a.zeroDays,
			GeneratedAt:        now,
		}
		written, err := s.perfRepo.Upsert(ctx, perf)
		if err != nil {
			return nil, err
		}
		if !written {
			resp.Skipped++
			continue
		}
		resp.Generated++
		resp.Rows = append(resp.Rows, *performanceToResponse(perf))
	}
	return resp, nil
}

func (s *gradingService) Lock(ctx context.Context, req dto.LockGradesRequest) (int64, error) {
	return s.perfRepo.Lock(ctx, req.StoreID, req.Year, req.Month, time.Now())
}

func (s *gradingService) ListPerformance(ctx context.Context, storeID, year, month int) ([]dto.PerformanceResponse, error) {
	perfs, err := s.perfRepo.ListByStoreMonth(ctx, storeID, year, month)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PerformanceResponse, 0, len(perfs))
	for i := range perfs {
		items = append(items, *performanceToResponse(&perfs[i]))
	}
	return items, nil
}

func (s *gradingService) MyPerformance(ctx context.Context, userID uuid.UUID, storeID, year, month int) (*dto.PerformanceResponse, error) {
	perf, err := s.perfRepo.FindByUserMonth(ctx, userID, storeID, year, month)
	if err != nil {
		return nil, domain.NotFound("performance", userID.String())
	}
	return performanceToResponse(perf), nil
}

func (s *gradingService) MyPoints(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.PointEntryResponse, error) {
	entries, err := s.pointsRepo.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PointEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.PointEntryResponse{
			ID:            e.ID.String(),
			Points:        e.Points,
			ReasonCode:    e.ReasonCode,
			Notes:         e.Notes,
			EffectiveDate: e.EffectiveDate.Format("2006-01-02"),
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

func (s *gradingService) AwardPoints(ctx context.Context, actorID uuid.UUID, req dto.AwardPointsRequest) error {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return domain.Validationf("invalid user_id: %s", req.UserID)
	}
	if _, err := s.reasonRepo.FindByCode(ctx, req.ReasonCode); err != nil {
		return domain.NotFound("reason code", req.ReasonCode)
	}
	effective, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return domain.Validationf("invalid effective_date: %s", req.EffectiveDate)
	}
	refType := "MANUAL"
	refID := actorID
	notes := req.Notes
	return s.pointsRepo.Append(ctx, nil, &model.StaffPointEntry{
		UserID:        userID,
		StoreID:       req.StoreID,
		Points:        req.Points,
		ReasonCode:    req.ReasonCode,
		ReferenceType: &refType,
		ReferenceID:   &refID,
		Notes:         &notes,
		EffectiveDate: effective,
	})
}

func (s *gradingService) GetConfig(ctx context.Context, storeID *int) ([]dto.GradingConfigResponse, error) {
	rows, err := s.configRepo.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.GradingConfigResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.GradingConfigResponse{StoreID: row.StoreID, Key: row.Key, Value: row.Value})
	}
	return items, nil
}

func (s *gradingService) UpdateConfig(ctx context.Context, req dto.UpdateGradingConfigRequest) error {
	// Reject threshold updates that would break the ladder. Rates and caps
	// only need to be non-negative.
	switch req.Key {
	case model.CfgGradeAPlusMin, model.CfgGradeAMin, model.CfgGradeBMin, model.CfgGradeCMin, model.CfgGradeDMin:
		storeID := 0
		if req.StoreID != nil {
			storeID = *req.StoreID
		}
		values, err := s.configRepo.ValuesFor(ctx, storeID)
		if err != nil {
			return err
		}
		values[req.Key] = req.Value
		if _, err := buildLadder(values); err != nil {
			return err
		}
	case model.CfgBonusRateAPlus, model.CfgBonusRateA, model.CfgBonusRateB,
		model.CfgPenaltyRateC, model.CfgPenaltyRateD, model.CfgPenaltyRateE,
		model.CfgBonusCapMonthly, model.CfgPenaltyCapMonthly:
		if req.Value.IsNegative() {
			return domain.Validationf("%s cannot be negative", req.Key)
		}
	default:
		return domain.Validationf("unknown grading config key %q", req.Key)
	}
	return s.configRepo.Upsert(ctx, req.StoreID, req.Key, req.Value)
}

func (s *gradingService) ListReasonCodes(ctx context.Context) ([]dto.ReasonCodeResponse, error) {
	codes, err := s.reasonRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReasonCodeResponse, 0, len(codes))
	for _, rc := range codes {
		items = append(items, dto.ReasonCodeResponse{
			Code:           rc.Code,
			Description:    rc.Description,
			Direction:      rc.Direction,
			AffectsStock:   rc.AffectsStock,
			PointsValue:    rc.PointsValue,
			PointsPerKg:    rc.PointsPerKg,
			IsConfigurable: rc.IsConfigurable,
		})
	}
	return items, nil
}

func (s *gradingService) UpdateReasonCode(ctx context.Context, code string, req dto.UpdateReasonCodeRequest) error {
	rc, err := s.reasonRepo.FindByCode(ctx, code)
	if err != nil {
		return domain.NotFound("reason code", code)
	}
	if !rc.IsConfigurable {
		return domain.Validationf("reason code %s is system-fixed", code)
	}
	rows, err := s.reasonRepo.UpdatePoints(ctx, code, req.PointsValue)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.Conflictf("reason code %s could not be updated", code)
	}
	return nil
}

func performanceToResponse(p *model.StaffMonthlyPerformance) *dto.PerformanceResponse {
	return &dto.PerformanceResponse{
		UserID:             p.UserID.String(),
		StoreID:            p.StoreID,
		Year:               p.Year,
		Month:              p.Month,
		TotalPoints:        p.TotalPoints,
		WeightHandled:      p.WeightHandled,
		NormalizedScore:    p.NormalizedScore,
		Grade:              p.Grade,
		BonusAmount:        p.BonusAmount,
		PenaltyAmount:      p.PenaltyAmount,
		NetIncentive:       p.NetIncentive,
		PositiveVarianceKg: p.PositiveVarianceKg,
		NegativeVarianceKg: p.NegativeVarianceKg,
		ZeroVarianceDays:   p.ZeroVarianceDays,
		IsLocked:           p.IsLocked,
	}
}
