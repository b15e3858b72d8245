package service

import (
	"context"
	"testing"
	"time"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func currentMonth() (int, int) {
	now := time.Now().UTC()
	return now.Year(), int(now.Month())
}

// awardTestPoints drops a point entry inside the current month window.
func awardTestPoints(env *testEnv, userID uuid.UUID, points string) {
	_ = env.points.Append(context.Background(), nil, &model.StaffPointEntry{
		UserID:        userID,
		StoreID:       1,
		Points:        dec(points),
		ReasonCode:    model.ReasonManualAdjustment,
		EffectiveDate: time.Now().UTC(),
	})
}

// recordSaleWeight plants a sale so ItemWeightByCashier sees the weight.
func recordSaleWeight(env *testEnv, cashierID uuid.UUID, kg, key string) {
	_ = env.sales.Create(context.Background(), nil, &model.Sale{
		StoreID:        1,
		PaymentMethod:  model.PaymentCash,
		TotalWeight:    dec(kg),
		CashierID:      cashierID,
		IdempotencyKey: key,
		Items:          []model.SaleItem{{Weight: dec(kg)}},
	})
}

func TestGenerateNormalizesScoreByWeight(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	year, month := currentMonth()

	cashier := uuid.New()
	recordSaleWeight(env, cashier, "10", "grade-sale-a")
	awardTestPoints(env, cashier, "20")

	resp, err := svc.Generate(context.Background(), dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Generated)

	row := resp.Rows[0]
	// 20 points over 10 kg = 2.0, the A_PLUS floor
	assert.True(t, row.NormalizedScore.Equal(dec("2")), "got %s", row.NormalizedScore)
	assert.Equal(t, model.GradeAPlus, row.Grade)
	// bonus = weight * A_PLUS rate
	assert.True(t, row.BonusAmount.Equal(dec("20.00")), "got %s", row.BonusAmount)
	assert.True(t, row.PenaltyAmount.IsZero())
	assert.True(t, row.NetIncentive.Equal(dec("20.00")))
}

func TestGenerateZeroWeightScoresZero(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	year, month := currentMonth()

	staff := uuid.New()
	awardTestPoints(env, staff, "-30")

	resp, err := svc.Generate(context.Background(), dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Generated)

	row := resp.Rows[0]
	assert.True(t, row.WeightHandled.IsZero())
	// Zero handled weight normalizes to 0, never the raw point total.
	assert.True(t, row.NormalizedScore.IsZero(), "got %s", row.NormalizedScore)
	assert.Equal(t, model.GradeC, row.Grade)
	assert.True(t, row.TotalPoints.Equal(dec("-30")), "raw points still reported")
}

func TestGenerateAppliesMonthlyCaps(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	ctx := context.Background()
	year, month := currentMonth()

	t.Run("bonus cap", func(t *testing.T) {
		big := uuid.New()
		recordSaleWeight(env, big, "3000", "grade-sale-cap")
		awardTestPoints(env, big, "6000") // score 2.0 -> A_PLUS, raw bonus 6000

		resp, err := svc.Generate(ctx, dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
		require.NoError(t, err)

		perf, err := env.performance.FindByUserMonth(ctx, big, 1, year, month)
		require.NoError(t, err)
		assert.Equal(t, model.GradeAPlus, perf.Grade)
		assert.True(t, perf.BonusAmount.Equal(dec("5000")), "capped, got %s", perf.BonusAmount)
		assert.GreaterOrEqual(t, resp.Generated, 1)
	})

	t.Run("penalty cap", func(t *testing.T) {
		env := newTestEnv()
		svc := env.gradingSvc()
		leaky := uuid.New()
		recordSaleWeight(env, leaky, "1000", "grade-sale-pen")
		awardTestPoints(env, leaky, "-5000") // score -5 -> E
		env.variances.kgRows = []repository.UserVarianceKg{
			{UserID: leaky, VarianceType: model.VarianceNegative, Kg: dec("5000")},
		}

		_, err := svc.Generate(ctx, dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
		require.NoError(t, err)

		perf, err := env.performance.FindByUserMonth(ctx, leaky, 1, year, month)
		require.NoError(t, err)
		assert.Equal(t, model.GradeE, perf.Grade)
		// raw penalty 5000 kg * rate 1 = 5000, capped at 2000
		assert.True(t, perf.PenaltyAmount.Equal(dec("2000")), "capped, got %s", perf.PenaltyAmount)
		assert.True(t, perf.NegativeVarianceKg.Equal(dec("5000")))
	})

	t.Run("zero cap disables the ceiling", func(t *testing.T) {
		env := newTestEnv()
		svc := env.gradingSvc()
		env.grading.global[model.CfgPenaltyCapMonthly] = dec("0")

		leaky := uuid.New()
		recordSaleWeight(env, leaky, "1000", "grade-sale-nocap")
		awardTestPoints(env, leaky, "-5000")
		env.variances.kgRows = []repository.UserVarianceKg{
			{UserID: leaky, VarianceType: model.VarianceNegative, Kg: dec("5000")},
		}

		_, err := svc.Generate(ctx, dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
		require.NoError(t, err)

		perf, err := env.performance.FindByUserMonth(ctx, leaky, 1, year, month)
		require.NoError(t, err)
		assert.True(t, perf.PenaltyAmount.Equal(dec("5000.00")), "uncapped, got %s", perf.PenaltyAmount)
	})
}

func TestGenerateCountsZeroVarianceDays(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	year, month := currentMonth()

	staff := uuid.New()
	_ = env.points.Append(context.Background(), nil, &model.StaffPointEntry{
		UserID:        staff,
		StoreID:       1,
		Points:        dec("10"),
		ReasonCode:    model.ReasonSettlementZeroVariance,
		EffectiveDate: time.Now().UTC(),
	})

	_, err := svc.Generate(context.Background(), dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
	require.NoError(t, err)

	perf, err := env.performance.FindByUserMonth(context.Background(), staff, 1, year, month)
	require.NoError(t, err)
	assert.Equal(t, 1, perf.ZeroVarianceDays)
}

func TestGenerateSkipsLockedRows(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	ctx := context.Background()
	year, month := currentMonth()

	staff := uuid.New()
	awardTestPoints(env, staff, "5")

	_, err := svc.Generate(ctx, dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
	require.NoError(t, err)

	locked, err := svc.Lock(ctx, dto.LockGradesRequest{StoreID: 1, Year: year, Month: month})
	require.NoError(t, err)
	assert.EqualValues(t, 1, locked)

	// More activity lands after payroll closed the month.
	awardTestPoints(env, staff, "100")
	resp, err := svc.Generate(ctx, dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Generated)
	assert.Equal(t, 1, resp.Skipped)

	perf, err := env.performance.FindByUserMonth(ctx, staff, 1, year, month)
	require.NoError(t, err)
	assert.True(t, perf.TotalPoints.Equal(dec("5")), "locked row must keep its values")
}

func TestGenerateRejectsBrokenLadder(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	year, month := currentMonth()

	// A_MIN above A_PLUS_MIN is no longer strictly descending.
	env.grading.global[model.CfgGradeAMin] = dec("2.5")

	_, err := svc.Generate(context.Background(), dto.GenerateGradesRequest{StoreID: 1, Year: year, Month: month})
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestUpdateGradingConfig(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	ctx := context.Background()

	t.Run("threshold update keeping order", func(t *testing.T) {
		err := svc.UpdateConfig(ctx, dto.UpdateGradingConfigRequest{Key: model.CfgGradeAPlusMin, Value: dec("2.5")})
		assert.NoError(t, err)
	})

	t.Run("threshold update breaking order", func(t *testing.T) {
		err := svc.UpdateConfig(ctx, dto.UpdateGradingConfigRequest{Key: model.CfgGradeBMin, Value: dec("1.5")})
		var cfgErr *domain.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("negative rate", func(t *testing.T) {
		err := svc.UpdateConfig(ctx, dto.UpdateGradingConfigRequest{Key: model.CfgBonusRateA, Value: dec("-1")})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown key", func(t *testing.T) {
		err := svc.UpdateConfig(ctx, dto.UpdateGradingConfigRequest{Key: "GRADE_F_MIN", Value: dec("0")})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("store override leaves global alone", func(t *testing.T) {
		storeID := 2
		err := svc.UpdateConfig(ctx, dto.UpdateGradingConfigRequest{Key: model.CfgBonusRateA, Value: dec("1.5"), StoreID: &storeID})
		require.NoError(t, err)

		values, err := env.grading.ValuesFor(ctx, 2)
		require.NoError(t, err)
		assert.True(t, values[model.CfgBonusRateA].Equal(dec("1.5")))

		global, err := env.grading.ValuesFor(ctx, 1)
		require.NoError(t, err)
		assert.True(t, global[model.CfgBonusRateA].Equal(dec("1.0")))
	})
}

func TestUpdateReasonCode(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	ctx := context.Background()

	t.Run("configurable code updates", func(t *testing.T) {
		err := svc.UpdateReasonCode(ctx, model.ReasonVarianceNegative, dto.UpdateReasonCodeRequest{PointsValue: dec("-7")})
		require.NoError(t, err)
		rc, err := env.reasons.FindByCode(ctx, model.ReasonVarianceNegative)
		require.NoError(t, err)
		assert.True(t, rc.PointsValue.Equal(dec("-7")))
	})

	t.Run("system-fixed code refuses", func(t *testing.T) {
		err := svc.UpdateReasonCode(ctx, model.ReasonSaleDebit, dto.UpdateReasonCodeRequest{PointsValue: dec("1")})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown code", func(t *testing.T) {
		err := svc.UpdateReasonCode(ctx, "GOOD_BEHAVIOR", dto.UpdateReasonCodeRequest{PointsValue: dec("1")})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}

func TestAwardPointsManually(t *testing.T) {
	env := newTestEnv()
	svc := env.gradingSvc()
	ctx := context.Background()
	staff := uuid.New()

	err := svc.AwardPoints(ctx, uuid.New(), dto.AwardPointsRequest{
		UserID:        staff.String(),
		StoreID:       1,
		Points:        dec("15"),
		ReasonCode:    model.ReasonManualAdjustment,
		Notes:         "covered a double shift",
		EffectiveDate: time.Now().UTC().Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.True(t, env.points.totalFor(staff).Equal(dec("15")))

	t.Run("unknown reason code", func(t *testing.T) {
		err := svc.AwardPoints(ctx, uuid.New(), dto.AwardPointsRequest{
			UserID:        staff.String(),
			StoreID:       1,
			Points:        dec("5"),
			ReasonCode:    "GOOD_BEHAVIOR",
			Notes:         "made-up code",
			EffectiveDate: time.Now().UTC().Format("2006-01-02"),
		})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}
