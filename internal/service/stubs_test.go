package service

import (
	"context"
	"fmt"
	"time"

	"poultrycore/internal/config"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"
	"poultrycore/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs for every repository the services touch. runTx passes a nil
// *gorm.DB when the repo's DB() is nil, so all stubs ignore the tx argument.

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Ledger ───────────────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	entries []model.LedgerEntry
	// auditOnly mirrors affects_stock=false codes: excluded from balance folds.
	auditOnly map[string]bool
}

func newStubLedgerRepo() *stubLedgerRepo {
	return &stubLedgerRepo{auditOnly: map[string]bool{model.ReasonWastage: true}}
}

func (r *stubLedgerRepo) Append(_ context.Context, _ *gorm.DB, e *model.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLedgerRepo) Balance(_ context.Context, _ *gorm.DB, storeID int, birdType, state string, asOf *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.entries {
		if e.StoreID != storeID || e.BirdType != birdType || e.InventoryState != state {
			continue
		}
		if r.auditOnly[e.ReasonCode] {
			continue
		}
		if asOf != nil && e.CreatedAt.After(*asOf) {
			continue
		}
		total = total.Add(e.QuantityDelta)
	}
	return total, nil
}

func (r *stubLedgerRepo) LockPartition(_ context.Context, _ *gorm.DB, _ int, _, _ string) error {
	return nil
}

func (r *stubLedgerRepo) ListRange(_ context.Context, storeID int, from, to time.Time) ([]model.LedgerEntry, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.StoreID == storeID && !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubLedgerRepo) List(_ context.Context, filter dto.LedgerFilter) ([]model.LedgerEntry, int64, error) {
	var out []model.LedgerEntry
	for _, e := range r.entries {
		if e.StoreID == filter.StoreID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// countByReason is a test assertion helper.
func (r *stubLedgerRepo) countByReason(reason string) int {
	n := 0
	for _, e := range r.entries {
		if e.ReasonCode == reason {
			n++
		}
	}
	return n
}

// ── Reason codes ─────────────────────────────────────────────────────────────

type stubReasonRepo struct {
	codes map[string]*model.ReasonCode
}

// newStubReasonRepo seeds the same vocabulary the schema patch inserts.
func newStubReasonRepo() *stubReasonRepo {
	codes := []*model.ReasonCode{
		{Code: model.ReasonPurchaseReceived, Direction: model.DirectionCredit, AffectsStock: true},
		{Code: model.ReasonProcessingDebit, Direction: model.DirectionDebit, AffectsStock: true},
		{Code: model.ReasonProcessingCredit, Direction: model.DirectionCredit, AffectsStock: true},
		{Code: model.ReasonWastage, Direction: model.DirectionDebit, AffectsStock: false},
		{Code: model.ReasonSaleDebit, Direction: model.DirectionDebit, AffectsStock: true},
		{Code: model.ReasonVariancePositive, Direction: model.DirectionCredit, AffectsStock: true,
			PointsValue: dec("2"), PointsPerKg: true, IsConfigurable: true},
		{Code: model.ReasonVarianceNegative, Direction: model.DirectionDebit, AffectsStock: true,
			PointsValue: dec("-5"), PointsPerKg: true, IsConfigurable: true},
		{Code: model.ReasonManualAdjustment, Direction: model.DirectionBoth, AffectsStock: true},
		{Code: model.ReasonTransferOut, Direction: model.DirectionDebit, AffectsStock: true},
		{Code: model.ReasonTransferIn, Direction: model.DirectionCredit, AffectsStock: true},
		{Code: model.ReasonSettlementZeroVariance, PointsValue: dec("10"), IsConfigurable: true},
		{Code: model.ReasonMissedSettlement, PointsValue: dec("-20"), IsConfigurable: true},
		{Code: model.ReasonRepeatedNegativeVariance, PointsValue: dec("-30"), IsConfigurable: true},
	}
	m := make(map[string]*model.ReasonCode, len(codes))
	for _, c := range codes {
		m[c.Code] = c
	}
	return &stubReasonRepo{codes: m}
}

func (r *stubReasonRepo) FindByCode(_ context.Context, code string) (*model.ReasonCode, error) {
	rc, ok := r.codes[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rc, nil
}

func (r *stubReasonRepo) List(_ context.Context) ([]model.ReasonCode, error) {
	out := make([]model.ReasonCode, 0, len(r.codes))
	for _, rc := range r.codes {
		out = append(out, *rc)
	}
	return out, nil
}

func (r *stubReasonRepo) UpdatePoints(_ context.Context, code string, value decimal.Decimal) (int64, error) {
	rc, ok := r.codes[code]
	if !ok || !rc.IsConfigurable {
		return 0, nil
	}
	rc.PointsValue = value
	return 1, nil
}

var _ repository.ReasonCodeRepository = (*stubReasonRepo)(nil)

// ── Stores ───────────────────────────────────────────────────────────────────

type stubStoreRepo struct {
	stores map[int]*model.Store
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: map[int]*model.Store{
		1: {ID: 1, Name: "Main Counter", Timezone: "UTC", Status: model.StoreActive},
		2: {ID: 2, Name: "Highway Outlet", Timezone: "UTC", Status: model.StoreActive},
	}}
}

func (r *stubStoreRepo) FindByID(_ context.Context, id int) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStoreRepo) List(_ context.Context) ([]model.Store, error) {
	out := make([]model.Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStoreRepo) Create(_ context.Context, s *model.Store) error {
	if s.ID == 0 {
		s.ID = len(r.stores) + 1
	}
	r.stores[s.ID] = s
	return nil
}

func (r *stubStoreRepo) Update(_ context.Context, s *model.Store) error {
	r.stores[s.ID] = s
	return nil
}

func (r *stubStoreRepo) NextReceiptSeq(_ context.Context, _ *gorm.DB, storeID int) (int64, error) {
	s, ok := r.stores[storeID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	s.ReceiptSeq++
	return s.ReceiptSeq, nil
}

var _ repository.StoreRepository = (*stubStoreRepo)(nil)

// ── SKUs / suppliers / users ─────────────────────────────────────────────────

type stubSKURepo struct {
	skus map[uuid.UUID]*model.SKU
}

func newStubSKURepo() *stubSKURepo { return &stubSKURepo{skus: map[uuid.UUID]*model.SKU{}} }

func (r *stubSKURepo) seed(code, bird, state string) *model.SKU {
	s := &model.SKU{ID: uuid.New(), Code: code, Name: code, BirdType: bird, InventoryState: state, Active: true}
	r.skus[s.ID] = s
	return s
}

func (r *stubSKURepo) Create(_ context.Context, s *model.SKU) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.skus[s.ID] = s
	return nil
}

func (r *stubSKURepo) FindByID(_ context.Context, id uuid.UUID) (*model.SKU, error) {
	s, ok := r.skus[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSKURepo) FindByCode(_ context.Context, code string) (*model.SKU, error) {
	for _, s := range r.skus {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSKURepo) List(_ context.Context, activeOnly bool) ([]model.SKU, error) {
	var out []model.SKU
	for _, s := range r.skus {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSKURepo) Update(_ context.Context, s *model.SKU) error {
	r.skus[s.ID] = s
	return nil
}

var _ repository.SKURepository = (*stubSKURepo)(nil)

type stubSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: map[uuid.UUID]*model.Supplier{}}
}

func (r *stubSupplierRepo) seed(name, status string) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), Name: name, Status: status}
	r.suppliers[s.ID] = s
	return s
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context, status string) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: map[uuid.UUID]*model.User{}} }

func (r *stubUserRepo) seed(username, role string, storeIDs ...int) *model.User {
	u := &model.User{ID: uuid.New(), Username: username, Name: username, Role: role, StoreIDs: storeIDs, Active: true}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) ManagersForStore(_ context.Context, storeID int) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Role != model.RoleManager || !u.Active {
			continue
		}
		for _, id := range u.StoreIDs {
			if id == storeID {
				out = append(out, *u)
				break
			}
		}
	}
	return out, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Wastage config ───────────────────────────────────────────────────────────

type stubWastageRepo struct {
	configs []*model.WastageConfig
}

func (r *stubWastageRepo) seed(bird, target, pct string) *model.WastageConfig {
	w := &model.WastageConfig{
		ID:            uuid.New(),
		BirdType:      bird,
		TargetState:   target,
		Percentage:    dec(pct),
		EffectiveDate: time.Now().AddDate(0, 0, -30),
		IsActive:      true,
	}
	r.configs = append(r.configs, w)
	return w
}

func (r *stubWastageRepo) ActiveFor(_ context.Context, birdType, targetState string, date time.Time) (*model.WastageConfig, error) {
	var best *model.WastageConfig
	for _, w := range r.configs {
		if w.BirdType != birdType || w.TargetState != targetState || !w.IsActive {
			continue
		}
		if w.EffectiveDate.After(date) {
			continue
		}
		if best == nil || w.EffectiveDate.After(best.EffectiveDate) {
			best = w
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubWastageRepo) Create(_ context.Context, w *model.WastageConfig) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.configs = append(r.configs, w)
	return nil
}

func (r *stubWastageRepo) List(_ context.Context) ([]model.WastageConfig, error) {
	out := make([]model.WastageConfig, 0, len(r.configs))
	for _, w := range r.configs {
		out = append(out, *w)
	}
	return out, nil
}

func (r *stubWastageRepo) Deactivate(_ context.Context, id uuid.UUID) (int64, error) {
	for _, w := range r.configs {
		if w.ID == id && w.IsActive {
			w.IsActive = false
			return 1, nil
		}
	}
	return 0, nil
}

var _ repository.WastageConfigRepository = (*stubWastageRepo)(nil)

// ── Purchases ────────────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: map[uuid.UUID]*model.Purchase{}}
}

func (r *stubPurchaseRepo) Create(_ context.Context, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) Transition(_ context.Context, _ *gorm.DB, id uuid.UUID, from, to string, committedAt *time.Time) (int64, error) {
	p, ok := r.purchases[id]
	if !ok || p.Status != from {
		return 0, nil
	}
	p.Status = to
	if committedAt != nil {
		p.CommittedAt = committedAt
	}
	return 1, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		if p.StoreID == filter.StoreID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Processing ───────────────────────────────────────────────────────────────

type stubProcessingRepo struct {
	runs  map[uuid.UUID]*model.ProcessingRun
	byKey map[string]*model.ProcessingRun
}

func newStubProcessingRepo() *stubProcessingRepo {
	return &stubProcessingRepo{
		runs:  map[uuid.UUID]*model.ProcessingRun{},
		byKey: map[string]*model.ProcessingRun{},
	}
}

func (r *stubProcessingRepo) Create(_ context.Context, _ *gorm.DB, run *model.ProcessingRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.CreatedAt = time.Now()
	r.runs[run.ID] = run
	r.byKey[fmt.Sprintf("%d/%s", run.StoreID, run.IdempotencyKey)] = run
	return nil
}

func (r *stubProcessingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProcessingRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return run, nil
}

func (r *stubProcessingRepo) FindByIdempotencyKey(_ context.Context, storeID int, key string) (*model.ProcessingRun, error) {
	run, ok := r.byKey[fmt.Sprintf("%d/%s", storeID, key)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return run, nil
}

func (r *stubProcessingRepo) List(_ context.Context, filter dto.ProcessingFilter) ([]model.ProcessingRun, int64, error) {
	var out []model.ProcessingRun
	for _, run := range r.runs {
		if run.StoreID == filter.StoreID {
			out = append(out, *run)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProcessingRepo) InputWeightByOperator(_ context.Context, storeID int, from, to time.Time) ([]repository.UserWeight, error) {
	sums := map[uuid.UUID]decimal.Decimal{}
	for _, run := range r.runs {
		if run.StoreID != storeID || run.CreatedAt.Before(from) || !run.CreatedAt.Before(to) {
			continue
		}
		sums[run.OperatorID] = sums[run.OperatorID].Add(run.InputWeight)
	}
	var out []repository.UserWeight
	for id, w := range sums {
		out = append(out, repository.UserWeight{UserID: id, Weight: w})
	}
	return out, nil
}

func (r *stubProcessingRepo) DB() *gorm.DB { return nil }

var _ repository.ProcessingRepository = (*stubProcessingRepo)(nil)

// ── Sales ────────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
	byKey map[string]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: map[uuid.UUID]*model.Sale{}, byKey: map[string]*model.Sale{}}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	r.byKey[fmt.Sprintf("%d/%s", s.StoreID, s.IdempotencyKey)] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIdempotencyKey(_ context.Context, storeID int, key string) (*model.Sale, error) {
	s, ok := r.byKey[fmt.Sprintf("%d/%s", storeID, key)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.StoreID == filter.StoreID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) SummaryByMethod(_ context.Context, storeID int, from, to time.Time) (model.CashSummary, error) {
	summary := model.CashSummary{
		model.PaymentCash: decimal.Zero,
		model.PaymentUPI:  decimal.Zero,
		model.PaymentCard: decimal.Zero,
		model.PaymentBank: decimal.Zero,
	}
	for _, s := range r.sales {
		if s.StoreID != storeID || s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		summary[s.PaymentMethod] = summary[s.PaymentMethod].Add(s.TotalAmount)
	}
	return summary, nil
}

func (r *stubSaleRepo) ItemWeightByCashier(_ context.Context, storeID int, from, to time.Time) ([]repository.UserWeight, error) {
	sums := map[uuid.UUID]decimal.Decimal{}
	for _, s := range r.sales {
		if s.StoreID != storeID || s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		for _, item := range s.Items {
			sums[s.CashierID] = sums[s.CashierID].Add(item.Weight)
		}
	}
	var out []repository.UserWeight
	for id, w := range sums {
		out = append(out, repository.UserWeight{UserID: id, Weight: w})
	}
	return out, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Settlements ──────────────────────────────────────────────────────────────

type stubSettlementRepo struct {
	settlements map[uuid.UUID]*model.Settlement
}

func newStubSettlementRepo() *stubSettlementRepo {
	return &stubSettlementRepo{settlements: map[uuid.UUID]*model.Settlement{}}
}

func (r *stubSettlementRepo) Create(_ context.Context, s *model.Settlement) error {
	for _, existing := range r.settlements {
		if existing.StoreID == s.StoreID && existing.SettlementDate.Equal(s.SettlementDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.settlements[s.ID] = s
	return nil
}

func (r *stubSettlementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Settlement, error) {
	s, ok := r.settlements[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSettlementRepo) FindByStoreDate(_ context.Context, storeID int, date time.Time) (*model.Settlement, error) {
	for _, s := range r.settlements {
		if s.StoreID == storeID && s.SettlementDate.Format("2006-01-02") == date.Format("2006-01-02") {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSettlementRepo) Transition(_ context.Context, _ *gorm.DB, id uuid.UUID, from, to string, updates map[string]any) (int64, error) {
	s, ok := r.settlements[id]
	if !ok || s.Status != from {
		return 0, nil
	}
	s.Status = to
	for key, raw := range updates {
		switch key {
		case "declared_stock":
			s.DeclaredStock = raw.(model.StockMatrix)
		case "declared_cash":
			s.DeclaredCash = raw.(decimal.Decimal)
		case "declared_card":
			s.DeclaredCard = raw.(decimal.Decimal)
		case "declared_bank":
			s.DeclaredBank = raw.(decimal.Decimal)
		case "expenses":
			s.Expenses = raw.(decimal.Decimal)
		case "expected_stock":
			s.ExpectedStock = raw.(model.StockMatrix)
		case "expected_cash":
			s.ExpectedCash = raw.(model.CashSummary)
		case "calculated_variance":
			s.CalculatedVariance = raw.(model.VarianceMatrix)
		case "cash_variance":
			s.CashVariance = raw.(decimal.Decimal)
		case "notes":
			if v, ok := raw.(*string); ok {
				s.Notes = v
			}
		case "submitted_by":
			v := raw.(uuid.UUID)
			s.SubmittedBy = &v
		case "submitted_at":
			v := raw.(time.Time)
			s.SubmittedAt = &v
		case "approved_by":
			v := raw.(uuid.UUID)
			s.ApprovedBy = &v
		case "approved_at":
			v := raw.(time.Time)
			s.ApprovedAt = &v
		case "locked_at":
			v := raw.(time.Time)
			s.LockedAt = &v
		}
	}
	return 1, nil
}

func (r *stubSettlementRepo) List(_ context.Context, filter dto.SettlementFilter) ([]model.Settlement, int64, error) {
	var out []model.Settlement
	for _, s := range r.settlements {
		if s.StoreID == filter.StoreID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSettlementRepo) ExistsSubmittedFor(_ context.Context, storeID int, date time.Time) (bool, error) {
	for _, s := range r.settlements {
		if s.StoreID == storeID &&
			s.SettlementDate.Format("2006-01-02") == date.Format("2006-01-02") &&
			s.Status != model.SettlementDraft {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSettlementRepo) DB() *gorm.DB { return nil }

var _ repository.SettlementRepository = (*stubSettlementRepo)(nil)

// ── Variance logs ────────────────────────────────────────────────────────────

type stubVarianceRepo struct {
	logs map[uuid.UUID]*model.VarianceLog
	// settlements backs the Settlement preload on FindByID.
	settlements *stubSettlementRepo
	// canned aggregation rows for grading / scheduled tests
	kgRows    []repository.UserVarianceKg
	offenders []repository.Offender
}

func newStubVarianceRepo(settlements *stubSettlementRepo) *stubVarianceRepo {
	return &stubVarianceRepo{logs: map[uuid.UUID]*model.VarianceLog{}, settlements: settlements}
}

func (r *stubVarianceRepo) Create(_ context.Context, _ *gorm.DB, v *model.VarianceLog) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.logs[v.ID] = v
	return nil
}

func (r *stubVarianceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VarianceLog, error) {
	v, ok := r.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if r.settlements != nil {
		v.Settlement = r.settlements.settlements[v.SettlementID]
	}
	return v, nil
}

func (r *stubVarianceRepo) Resolve(_ context.Context, _ *gorm.DB, id uuid.UUID, toStatus string, updates map[string]any) (int64, error) {
	v, ok := r.logs[id]
	if !ok || v.Status != model.VarianceLogPending {
		return 0, nil
	}
	v.Status = toStatus
	for key, raw := range updates {
		switch key {
		case "ledger_entry_id":
			entryID := raw.(uuid.UUID)
			v.LedgerEntryID = &entryID
		case "resolved_by":
			by := raw.(uuid.UUID)
			v.ResolvedBy = &by
		case "resolved_at":
			at := raw.(time.Time)
			v.ResolvedAt = &at
		case "resolution_notes":
			notes := raw.(string)
			v.ResolutionNotes = &notes
		}
	}
	return 1, nil
}

func (r *stubVarianceRepo) ListBySettlement(_ context.Context, settlementID uuid.UUID) ([]model.VarianceLog, error) {
	var out []model.VarianceLog
	for _, v := range r.logs {
		if v.SettlementID == settlementID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVarianceRepo) List(_ context.Context, filter dto.VarianceFilter) ([]model.VarianceLog, int64, error) {
	var out []model.VarianceLog
	for _, v := range r.logs {
		if v.StoreID != filter.StoreID {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVarianceRepo) CountPending(_ context.Context, settlementID uuid.UUID) (int64, error) {
	var count int64
	for _, v := range r.logs {
		if v.SettlementID == settlementID && v.Status == model.VarianceLogPending {
			count++
		}
	}
	return count, nil
}

func (r *stubVarianceRepo) KgBySubmitter(_ context.Context, _ int, _, _ time.Time) ([]repository.UserVarianceKg, error) {
	return r.kgRows, nil
}

func (r *stubVarianceRepo) RepeatOffenders(_ context.Context, _, _ time.Time, _ int) ([]repository.Offender, error) {
	return r.offenders, nil
}

func (r *stubVarianceRepo) DB() *gorm.DB { return nil }

var _ repository.VarianceRepository = (*stubVarianceRepo)(nil)

// ── Staff points ─────────────────────────────────────────────────────────────

type stubPointsRepo struct {
	entries []model.StaffPointEntry
}

func (r *stubPointsRepo) Append(_ context.Context, _ *gorm.DB, e *model.StaffPointEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubPointsRepo) ListByUser(_ context.Context, userID uuid.UUID, from, to time.Time) ([]model.StaffPointEntry, error) {
	var out []model.StaffPointEntry
	for _, e := range r.entries {
		if e.UserID == userID && !e.EffectiveDate.Before(from) && e.EffectiveDate.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubPointsRepo) SumByUser(_ context.Context, storeID int, from, to time.Time) ([]repository.UserPoints, error) {
	sums := map[uuid.UUID]decimal.Decimal{}
	for _, e := range r.entries {
		if e.StoreID != storeID || e.EffectiveDate.Before(from) || !e.EffectiveDate.Before(to) {
			continue
		}
		sums[e.UserID] = sums[e.UserID].Add(e.Points)
	}
	var out []repository.UserPoints
	for id, p := range sums {
		out = append(out, repository.UserPoints{UserID: id, Points: p})
	}
	return out, nil
}

func (r *stubPointsRepo) CountByUserReason(_ context.Context, storeID int, reasonCode string, from, to time.Time) ([]repository.UserReasonCount, error) {
	counts := map[uuid.UUID]int{}
	for _, e := range r.entries {
		if e.StoreID != storeID || e.ReasonCode != reasonCode {
			continue
		}
		if e.EffectiveDate.Before(from) || !e.EffectiveDate.Before(to) {
			continue
		}
		counts[e.UserID]++
	}
	var out []repository.UserReasonCount
	for id, c := range counts {
		out = append(out, repository.UserReasonCount{UserID: id, Count: c})
	}
	return out, nil
}

func (r *stubPointsRepo) HasEntry(_ context.Context, userID uuid.UUID, reasonCode string, effectiveDate time.Time) (bool, error) {
	day := effectiveDate.Format("2006-01-02")
	for _, e := range r.entries {
		if e.UserID == userID && e.ReasonCode == reasonCode && e.EffectiveDate.Format("2006-01-02") == day {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPointsRepo) DB() *gorm.DB { return nil }

var _ repository.PointsRepository = (*stubPointsRepo)(nil)

// totalFor is a test assertion helper.
func (r *stubPointsRepo) totalFor(userID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.entries {
		if e.UserID == userID {
			total = total.Add(e.Points)
		}
	}
	return total
}

// ── Monthly performance ──────────────────────────────────────────────────────

type stubPerformanceRepo struct {
	rows map[string]*model.StaffMonthlyPerformance
}

func newStubPerformanceRepo() *stubPerformanceRepo {
	return &stubPerformanceRepo{rows: map[string]*model.StaffMonthlyPerformance{}}
}

func perfKey(userID uuid.UUID, storeID, year, month int) string {
	return fmt.Sprintf("%s/%d/%d/%d", userID, storeID, year, month)
}

func (r *stubPerformanceRepo) Upsert(_ context.Context, p *model.StaffMonthlyPerformance) (bool, error) {
	key := perfKey(p.UserID, p.StoreID, p.Year, p.Month)
	if existing, ok := r.rows[key]; ok && existing.IsLocked {
		return false, nil
	}
	r.rows[key] = p
	return true, nil
}

func (r *stubPerformanceRepo) FindByUserMonth(_ context.Context, userID uuid.UUID, storeID, year, month int) (*model.StaffMonthlyPerformance, error) {
	p, ok := r.rows[perfKey(userID, storeID, year, month)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPerformanceRepo) ListByStoreMonth(_ context.Context, storeID, year, month int) ([]model.StaffMonthlyPerformance, error) {
	var out []model.StaffMonthlyPerformance
	for _, p := range r.rows {
		if p.StoreID == storeID && p.Year == year && p.Month == month {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPerformanceRepo) Lock(_ context.Context, storeID, year, month int, lockedAt time.Time) (int64, error) {
	var n int64
	for _, p := range r.rows {
		if p.StoreID == storeID && p.Year == year && p.Month == month && !p.IsLocked {
			p.IsLocked = true
			p.LockedAt = &lockedAt
			n++
		}
	}
	return n, nil
}

func (r *stubPerformanceRepo) DB() *gorm.DB { return nil }

var _ repository.PerformanceRepository = (*stubPerformanceRepo)(nil)

// ── Grading config ───────────────────────────────────────────────────────────

type stubGradingConfigRepo struct {
	global map[string]decimal.Decimal
	stores map[int]map[string]decimal.Decimal
}

// newStubGradingConfigRepo seeds the defaults the schema patch inserts.
func newStubGradingConfigRepo() *stubGradingConfigRepo {
	return &stubGradingConfigRepo{
		global: map[string]decimal.Decimal{
			model.CfgGradeAPlusMin:    dec("2.0"),
			model.CfgGradeAMin:        dec("1.0"),
			model.CfgGradeBMin:        dec("0.5"),
			model.CfgGradeCMin:        dec("0.0"),
			model.CfgGradeDMin:        dec("-0.5"),
			model.CfgBonusRateAPlus:   dec("2.0"),
			model.CfgBonusRateA:       dec("1.0"),
			model.CfgBonusRateB:       dec("0.5"),
			model.CfgPenaltyRateC:     dec("0.0"),
			model.CfgPenaltyRateD:     dec("0.5"),
			model.CfgPenaltyRateE:     dec("1.0"),
			model.CfgBonusCapMonthly:  dec("5000"),
			model.CfgPenaltyCapMonthly: dec("2000"),
		},
		stores: map[int]map[string]decimal.Decimal{},
	}
}

func (r *stubGradingConfigRepo) ValuesFor(_ context.Context, storeID int) (map[string]decimal.Decimal, error) {
	values := make(map[string]decimal.Decimal, len(r.global))
	for k, v := range r.global {
		values[k] = v
	}
	for k, v := range r.stores[storeID] {
		values[k] = v
	}
	return values, nil
}

func (r *stubGradingConfigRepo) List(_ context.Context, storeID *int) ([]model.GradingConfig, error) {
	var out []model.GradingConfig
	if storeID == nil {
		for k, v := range r.global {
			out = append(out, model.GradingConfig{Key: k, Value: v})
		}
		return out, nil
	}
	for k, v := range r.stores[*storeID] {
		out = append(out, model.GradingConfig{StoreID: storeID, Key: k, Value: v})
	}
	return out, nil
}

func (r *stubGradingConfigRepo) Upsert(_ context.Context, storeID *int, key string, value decimal.Decimal) error {
	if storeID == nil {
		r.global[key] = value
		return nil
	}
	if r.stores[*storeID] == nil {
		r.stores[*storeID] = map[string]decimal.Decimal{}
	}
	r.stores[*storeID][key] = value
	return nil
}

var _ repository.GradingConfigRepository = (*stubGradingConfigRepo)(nil)

// ── Transfers ────────────────────────────────────────────────────────────────

type stubTransferRepo struct {
	transfers []*model.StockTransfer
}

func (r *stubTransferRepo) Create(_ context.Context, _ *gorm.DB, t *model.StockTransfer) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.transfers = append(r.transfers, t)
	return nil
}

func (r *stubTransferRepo) List(_ context.Context, storeID int, _ int) ([]model.StockTransfer, error) {
	var out []model.StockTransfer
	for _, t := range r.transfers {
		if t.FromStoreID == storeID || t.ToStoreID == storeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTransferRepo) DB() *gorm.DB { return nil }

var _ repository.TransferRepository = (*stubTransferRepo)(nil)

// ── Shared environment ───────────────────────────────────────────────────────

// testEnv wires the full stub repository set behind a real stock service, so
// every higher service under test runs against the same in-memory ledger.
type testEnv struct {
	ledger      *stubLedgerRepo
	reasons     *stubReasonRepo
	stores      *stubStoreRepo
	skus        *stubSKURepo
	suppliers   *stubSupplierRepo
	users       *stubUserRepo
	wastage     *stubWastageRepo
	purchases   *stubPurchaseRepo
	processing  *stubProcessingRepo
	sales       *stubSaleRepo
	settlements *stubSettlementRepo
	variances   *stubVarianceRepo
	points      *stubPointsRepo
	performance *stubPerformanceRepo
	grading     *stubGradingConfigRepo
	transfers   *stubTransferRepo
	stock       StockService
	cfg         *config.Config
}

func newTestEnv() *testEnv {
	settlements := newStubSettlementRepo()
	env := &testEnv{
		ledger:      newStubLedgerRepo(),
		reasons:     newStubReasonRepo(),
		stores:      newStubStoreRepo(),
		skus:        newStubSKURepo(),
		suppliers:   newStubSupplierRepo(),
		users:       newStubUserRepo(),
		wastage:     &stubWastageRepo{},
		purchases:   newStubPurchaseRepo(),
		processing:  newStubProcessingRepo(),
		sales:       newStubSaleRepo(),
		settlements: settlements,
		variances:   newStubVarianceRepo(settlements),
		points:      &stubPointsRepo{},
		performance: newStubPerformanceRepo(),
		grading:     newStubGradingConfigRepo(),
		transfers:   &stubTransferRepo{},
		cfg:         &config.Config{VarianceToleranceKg: 0, CriticalVarianceKg: 1000},
	}
	env.stock = NewStockService(env.ledger, env.reasons, env.stores, nil)
	return env
}

// creditStock seeds a partition balance through a committed purchase entry.
func (env *testEnv) creditStock(storeID int, bird, state, kg string) {
	refType := model.RefPurchase
	_ = env.ledger.Append(context.Background(), nil, &model.LedgerEntry{
		StoreID:        storeID,
		BirdType:       bird,
		InventoryState: state,
		QuantityDelta:  dec(kg),
		ReasonCode:     model.ReasonPurchaseReceived,
		ReferenceType:  &refType,
		ActorID:        uuid.New(),
	})
}

func (env *testEnv) settlementSvc() SettlementService {
	return NewSettlementService(env.settlements, env.variances, env.sales, env.stores,
		env.points, env.reasons, env.stock, nil, env.cfg)
}

func (env *testEnv) varianceSvc() VarianceService {
	return NewVarianceService(env.variances, env.reasons, env.points, env.stock)
}

func (env *testEnv) gradingSvc() GradingService {
	return NewGradingService(env.performance, env.points, env.grading, env.reasons,
		env.sales, env.processing, env.variances)
}

func (env *testEnv) scheduledSvc() ScheduledService {
	return NewScheduledService(env.settlements, env.variances, env.points, env.reasons,
		env.stores, env.users)
}
