package dto

type CreateStoreRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

type UpdateStoreRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=2,max=100"`
	Timezone *string `json:"timezone" validate:"omitempty,timezone"`
	Status   *string `json:"status"   validate:"omitempty,oneof=ACTIVE MAINTENANCE"`
}

type StoreResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Status   string `json:"status"`
}
