package dto

// ─── SKU DTOs ────────────────────────────────────────────────────────────────

type CreateSKURequest struct {
	Code           string `json:"code"            validate:"required,min=2,max=40"`
	Name           string `json:"name"            validate:"required,min=2,max=100"`
	BirdType       string `json:"bird_type"       validate:"required,oneof=BROILER PARENT_CULL"`
	InventoryState string `json:"inventory_state" validate:"required,oneof=LIVE SKIN SKINLESS"`
}

type UpdateSKURequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2,max=100"`
	Active *bool   `json:"active"`
}

type SKUResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	BirdType       string `json:"bird_type"`
	InventoryState string `json:"inventory_state"`
	Active         bool   `json:"active"`
}

// ─── Supplier DTOs ───────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=100"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"   validate:"omitempty,min=2,max=100"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Status  *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type SupplierResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Status  string  `json:"status"`
}
