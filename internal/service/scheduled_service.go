package service

import (
	"context"
	"time"

	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/rs/zerolog/log"
)

// repeatOffenderWindow and repeatOffenderMin define "repeated": three or
// more deducted shortages inside a rolling week.
const (
	repeatOffenderWindow = 7 * 24 * time.Hour
	repeatOffenderMin    = 3
)

type ScheduledService interface {
	// RunDailyChecks posts the automatic penalties for one business date:
	// MISSED_SETTLEMENT against every manager of a store with no submitted
	// settlement, and REPEATED_NEGATIVE_VARIANCE against staff with repeated
	// shortages in the trailing week. Both are deduped per user per day, so
	// the job can run more than once safely.
	RunDailyChecks(ctx context.Context, date time.Time) (*DailyCheckReport, error)
}

// DailyCheckReport counts what a run actually posted.
type DailyCheckReport struct {
	Date                  string `json:"date"`
	MissedSettlements     int    `json:"missed_settlements"`
	RepeatOffenders       int    `json:"repeat_offenders"`
	StoresChecked         int    `json:"stores_checked"`
	AlreadyPenalizedUsers int    `json:"already_penalized_users"`
}

type scheduledService struct {
	settlementRepo repository.SettlementRepository
	varianceRepo   repository.VarianceRepository
	pointsRepo     repository.PointsRepository
	reasonRepo     repository.ReasonCodeRepository
	storeRepo      repository.StoreRepository
	userRepo       repository.UserRepository
}

func NewScheduledService(
	settlementRepo repository.SettlementRepository,
	varianceRepo repository.VarianceRepository,
	pointsRepo repository.PointsRepository,
	reasonRepo repository.ReasonCodeRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
) ScheduledService {
	return &scheduledService{
		settlementRepo: settlementRepo,
		varianceRepo:   varianceRepo,
		pointsRepo:     pointsRepo,
		reasonRepo:     reasonRepo,
		storeRepo:      storeRepo,
		userRepo:       userRepo,
	}
}

func (s *scheduledService) RunDailyChecks(ctx context.Context, date time.Time) (*DailyCheckReport, error) {
	report := &DailyCheckReport{Date: date.Format("2006-01-02")}

	if err := s.checkMissedSettlements(ctx, date, report); err != nil {
		return report, err
	}
	if err := s.checkRepeatOffenders(ctx, date, report); err != nil {
		return report, err
	}

	log.Info().
		Str("date", report.Date).
		Int("missed_settlements", report.MissedSettlements).
		Int("repeat_offenders", report.RepeatOffenders).
		Msg("daily checks complete")
	return report, nil
}

func (s *scheduledService) checkMissedSettlements(ctx context.Context, date time.Time, report *DailyCheckReport) error {
	rc, err := s.reasonRepo.FindByCode(ctx, model.ReasonMissedSettlement)
	if err != nil {
		return err
	}

	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return err
	}

	for _, store := range stores {
		if store.Status != model.StoreActive {
			continue
		}
		report.StoresChecked++

		submitted, err := s.settlementRepo.ExistsSubmittedFor(ctx, store.ID, date)
		if err != nil {
			return err
		}
		if submitted {
			continue
		}

		managers, err := s.userRepo.ManagersForStore(ctx, store.ID)
		if err != nil {
			return err
		}
		for _, manager := range managers {
			dup, err := s.pointsRepo.HasEntry(ctx, manager.ID, model.ReasonMissedSettlement, date)
			if err != nil {
				return err
			}
			if dup {
				report.AlreadyPenalizedUsers++
				continue
			}
			if err := s.pointsRepo.Append(ctx, nil, &model.StaffPointEntry{
				UserID:        manager.ID,
				StoreID:       store.ID,
				Points:        rc.PointsValue,
				ReasonCode:    model.ReasonMissedSettlement,
				EffectiveDate: date,
			}); err != nil {
				return err
			}
			report.MissedSettlements++
		}
	}
	return nil
}

func (s *scheduledService) checkRepeatOffenders(ctx context.Context, date time.Time, report *DailyCheckReport) error {
	rc, err := s.reasonRepo.FindByCode(ctx, model.ReasonRepeatedNegativeVariance)
	if err != nil {
		return err
	}

	windowEnd := date.Add(24 * time.Hour)
	offenders, err := s.varianceRepo.RepeatOffenders(ctx, windowEnd.Add(-repeatOffenderWindow), windowEnd, repeatOffenderMin)
	if err != nil {
		return err
	}

	for _, offender := range offenders {
		dup, err := s.pointsRepo.HasEntry(ctx, offender.UserID, model.ReasonRepeatedNegativeVariance, date)
		if err != nil {
			return err
		}
		if dup {
			report.AlreadyPenalizedUsers++
			continue
		}
		if err := s.pointsRepo.Append(ctx, nil, &model.StaffPointEntry{
			UserID:        offender.UserID,
			StoreID:       offender.StoreID,
			Points:        rc.PointsValue,
			ReasonCode:    model.ReasonRepeatedNegativeVariance,
			EffectiveDate: date,
		}); err != nil {
			return err
		}
		report.RepeatOffenders++
	}
	return nil
}
