package worker

// Generates the PDF receipt for a committed sale, off the request path.

import (
	"context"
	"encoding/json"
	"fmt"

	"poultrycore/internal/infra"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipts.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
}

type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	storeRepo   repository.StoreRepository
	storagePath string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, storeRepo repository.StoreRepository, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{saleRepo: saleRepo, storeRepo: storeRepo, storagePath: storagePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("receipt_worker: invalid payload: %w", err)
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: invalid sale_id %q: %w", payload.SaleID, err)
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load sale: %w", err)
	}
	store, err := w.storeRepo.FindByID(ctx, sale.StoreID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load store: %w", err)
	}

	path, err := infra.GenerateReceiptPDF(sale, store.Name, w.storagePath)
	if err != nil {
		return fmt.Errorf("receipt_worker: generate pdf: %w", err)
	}
	log.Info().Str("receipt", sale.ReceiptNumber).Str("path", path).Msg("receipt_worker: pdf generated")
	return nil
}
