package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"
	"poultrycore/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	// Create posts a multi-line sale. Sufficiency is re-derived inside the
	// transaction under advisory locks, so two concurrent sales can never
	// oversell a partition. A repeated idempotency key returns the stored
	// sale unchanged.
	Create(ctx context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	DailySummary(ctx context.Context, storeID int, date time.Time, loc *time.Location) (*dto.DailySalesSummaryResponse, error)
}

type saleService struct {
	repo       repository.SaleRepository
	skuRepo    repository.SKURepository
	storeRepo  repository.StoreRepository
	stock      StockService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	skuRepo repository.SKURepository,
	storeRepo repository.StoreRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{repo: repo, skuRepo: skuRepo, storeRepo: storeRepo, stock: stock, dispatcher: dispatcher}
}

// partitionKey identifies one (bird, state) cell of a store's stock grid.
type partitionKey struct {
	bird  string
	state string
}

func (s *saleService) Create(ctx context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, domain.NotFound("store", fmt.Sprint(req.StoreID))
	}
	if store.Status != model.StoreActive {
		return nil, domain.InvalidState("store", store.Status, "register sale")
	}

	// Idempotent replay
	if existing, err := s.repo.FindByIdempotencyKey(ctx, req.StoreID, req.IdempotencyKey); err == nil {
		return saleToResponse(existing), nil
	}

	// Resolve SKUs and group the required weight per partition (pre-flight,
	// outside the transaction).
	type resolvedItem struct {
		sku       *model.SKU
		weight    decimal.Decimal
		price     decimal.Decimal
		lineTotal decimal.Decimal
	}

	var resolved []resolvedItem
	required := map[partitionKey]decimal.Decimal{}
	totalWeight := decimal.Zero
	totalAmount := decimal.Zero

	for _, item := range req.Items {
		skuID, err := uuid.Parse(item.SKUID)
		if err != nil {
			return nil, domain.Validationf("invalid sku_id: %s", item.SKUID)
		}
		sku, err := s.skuRepo.FindByID(ctx, skuID)
		if err != nil {
			return nil, domain.NotFound("sku", item.SKUID)
		}
		if !sku.Active {
			return nil, domain.Validationf("sku %s is inactive", sku.Code)
		}
		if !item.Weight.IsPositive() {
			return nil, domain.Validationf("item weight must be positive")
		}

		lineTotal := item.Weight.Mul(item.PricePerKg).Round(2)
		key := partitionKey{bird: sku.BirdType, state: sku.InventoryState}
		required[key] = required[key].Add(item.Weight)
		totalWeight = totalWeight.Add(item.Weight)
		totalAmount = totalAmount.Add(lineTotal)
		resolved = append(resolved, resolvedItem{sku: sku, weight: item.Weight, price: item.PricePerKg, lineTotal: lineTotal})
	}

	// Sorted partition list: locks are always taken in the same order.
	partitions := make([]partitionKey, 0, len(required))
	for key := range required {
		partitions = append(partitions, key)
	}
	sort.Slice(partitions, func(i, j int) bool {
		if partitions[i].bird != partitions[j].bird {
			return partitions[i].bird < partitions[j].bird
		}
		return partitions[i].state < partitions[j].state
	})

	saleType := req.SaleType
	if saleType == "" {
		saleType = model.SalePOS
	}

	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, key := range partitions {
			if err := s.stock.LockPartition(ctx, tx, req.StoreID, key.bird, key.state); err != nil {
				return err
			}
		}
		for _, key := range partitions {
			balance, err := s.stock.Balance(ctx, tx, req.StoreID, key.bird, key.state, nil)
			if err != nil {
				return err
			}
			if required[key].GreaterThan(balance) {
				return &domain.InsufficientStockError{
					BirdType:  key.bird,
					State:     key.state,
					Available: balance.StringFixed(3),
					Requested: required[key].StringFixed(3),
				}
			}
		}

		seq, err := s.storeRepo.NextReceiptSeq(ctx, tx, req.StoreID)
		if err != nil {
			return err
		}

		sale = model.Sale{
			StoreID:        req.StoreID,
			ReceiptNumber:  fmt.Sprintf("S%d-%06d", req.StoreID, seq),
			SaleType:       saleType,
			PaymentMethod:  req.PaymentMethod,
			TotalAmount:    totalAmount,
			TotalWeight:    totalWeight,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			IdempotencyKey: req.IdempotencyKey,
			CashierID:      cashierID,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				SKUID:      r.sku.ID,
				Weight:     r.weight,
				PricePerKg: r.price,
				LineTotal:  r.lineTotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		refType := model.RefSale
		refID := sale.ID
		for _, r := range resolved {
			skuID := r.sku.ID
			if err := s.stock.AppendEntry(ctx, tx, &model.LedgerEntry{
				StoreID:        req.StoreID,
				BirdType:       r.sku.BirdType,
				InventoryState: r.sku.InventoryState,
				QuantityDelta:  r.weight.Neg(),
				ReasonCode:     model.ReasonSaleDebit,
				SKUID:          &skuID,
				ReferenceType:  &refType,
				ReferenceID:    &refID,
				ActorID:        cashierID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		// a concurrent request with the same key may have won the unique index
		if existing, err := s.repo.FindByIdempotencyKey(ctx, req.StoreID, req.IdempotencyKey); err == nil {
			return saleToResponse(existing), nil
		}
		return nil, txErr
	}

	// Attach SKUs for the response and the receipt job.
	for i, r := range resolved {
		sale.Items[i].SKU = r.sku
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, sale.ID)
	}
	return saleToResponse(&sale), nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NotFound("sale", id.String())
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) DailySummary(ctx context.Context, storeID int, date time.Time, loc *time.Location) (*dto.DailySalesSummaryResponse, error) {
	if loc == nil {
		loc = time.UTC
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	summary, err := s.repo.SummaryByMethod(ctx, storeID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	byMethod := make(map[string]decimal.Decimal, len(summary))
	for method, amount := range summary {
		byMethod[method] = amount
		total = total.Add(amount)
	}
	return &dto.DailySalesSummaryResponse{
		StoreID:  storeID,
		Date:     dayStart.Format("2006-01-02"),
		ByMethod: byMethod,
		Total:    total,
	}, nil
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		name := ""
		if item.SKU != nil {
			name = item.SKU.Name
		}
		items = append(items, dto.SaleItemResponse{
			SKUID:      item.SKUID.String(),
			SKU:        name,
			Weight:     item.Weight,
			PricePerKg: item.PricePerKg,
			LineTotal:  item.LineTotal,
		})
	}
	return &dto.SaleResponse{
		ID:            v.ID.String(),
		StoreID:       v.StoreID,
		ReceiptNumber: v.ReceiptNumber,
		SaleType:      v.SaleType,
		PaymentMethod: v.PaymentMethod,
		Items:         items,
		TotalWeight:   v.TotalWeight,
		TotalAmount:   v.TotalAmount,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
}
