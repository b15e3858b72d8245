package model

// BirdType partitions stock by the kind of bird traded.
type BirdType = string

const (
	BirdBroiler    BirdType = "BROILER"
	BirdParentCull BirdType = "PARENT_CULL"
)

// InventoryState is the processing stage of the stock.
type InventoryState = string

const (
	StateLive     InventoryState = "LIVE"
	StateSkin     InventoryState = "SKIN"
	StateSkinless InventoryState = "SKINLESS"
)

// AllBirdTypes and AllInventoryStates define the fixed partition grid
// every stock matrix iterates over, in stable order.
var (
	AllBirdTypes       = []BirdType{BirdBroiler, BirdParentCull}
	AllInventoryStates = []InventoryState{StateLive, StateSkin, StateSkinless}
)

func ValidBirdType(b string) bool {
	return b == BirdBroiler || b == BirdParentCull
}

func ValidInventoryState(s string) bool {
	return s == StateLive || s == StateSkin || s == StateSkinless
}

// Direction policy of a reason code.
const (
	DirectionCredit = "CREDIT"
	DirectionDebit  = "DEBIT"
	DirectionBoth   = "BOTH"
)

// Purchase lifecycle.
const (
	PurchaseDraft     = "DRAFT"
	PurchaseCommitted = "COMMITTED"
	PurchaseCancelled = "CANCELLED"
)

// Settlement lifecycle.
const (
	SettlementDraft     = "DRAFT"
	SettlementSubmitted = "SUBMITTED"
	SettlementApproved  = "APPROVED"
	SettlementLocked    = "LOCKED"
)

// Variance classification.
const (
	VarianceZero     = "ZERO"
	VariancePositive = "POSITIVE"
	VarianceNegative = "NEGATIVE"
)

// VarianceLog lifecycle.
const (
	VarianceLogPending  = "PENDING"
	VarianceLogApproved = "APPROVED"
	VarianceLogRejected = "REJECTED"
	VarianceLogDeducted = "DEDUCTED"
)

// Payment methods accepted at the counter.
const (
	PaymentCash = "CASH"
	PaymentUPI  = "UPI"
	PaymentCard = "CARD"
	PaymentBank = "BANK"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentBank:
		return true
	}
	return false
}

// Sale channels.
const (
	SalePOS  = "POS"
	SaleBulk = "BULK"
)

// Store status. MAINTENANCE blocks all mutating operations on the store.
const (
	StoreActive      = "ACTIVE"
	StoreMaintenance = "MAINTENANCE"
)

// Supplier status.
const (
	SupplierActive   = "ACTIVE"
	SupplierInactive = "INACTIVE"
)

// Staff grades, best to worst.
const (
	GradeAPlus = "A_PLUS"
	GradeA     = "A"
	GradeB     = "B"
	GradeC     = "C"
	GradeD     = "D"
	GradeE     = "E"
)

// User roles.
const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)
