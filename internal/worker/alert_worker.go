package worker

// Emails the operations contact when a settlement records a shortage past
// the critical threshold.

import (
	"context"
	"encoding/json"
	"fmt"

	"poultrycore/internal/infra"

	"github.com/rs/zerolog/log"
)

// VarianceAlertPayload is the job envelope sent to QueueAlerts.
type VarianceAlertPayload struct {
	SettlementID string `json:"settlement_id"`
	StoreID      int    `json:"store_id"`
	Date         string `json:"date"`
	NegativeKg   string `json:"negative_kg"`
}

type AlertWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewAlertWorker(mailer *infra.Mailer, alertEmail string) *AlertWorker {
	return &AlertWorker{mailer: mailer, alertEmail: alertEmail}
}

func (w *AlertWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload VarianceAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alert_worker: invalid payload: %w", err)
	}
	if w.alertEmail == "" {
		log.Warn().Msg("alert_worker: no alert email configured — skipping")
		return nil
	}

	subject := fmt.Sprintf("Critical stock shortage — store %d on %s", payload.StoreID, payload.Date)
	body := fmt.Sprintf(
		"Settlement %s at store %d recorded a total shortage of %s kg on %s.\n"+
			"The stock has already been deducted. Please review the settlement.\n",
		payload.SettlementID, payload.StoreID, payload.NegativeKg, payload.Date)

	if err := w.mailer.Send(w.alertEmail, subject, body); err != nil {
		return fmt.Errorf("alert_worker: send mail: %w", err)
	}
	log.Info().Str("to", w.alertEmail).Str("settlement", payload.SettlementID).Msg("alert_worker: alert sent")
	return nil
}
