package http

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

type RegistryResponse struct {
	Address     string        `json:"address"`
	Owner       string        `json:"owner"`
	CreationFee amount.Amount `json:"creation_fee"`
}

type AvailabilityResponse struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type HandleResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func NewHandleResponse(h registry.Handle) HandleResponse {
	return HandleResponse{Name: h.Name, Address: h.Address}
}

type ResourceResponse struct {
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	Owner     string        `json:"owner"`
	Price     amount.Amount `json:"price"`
	Rooms     *uint64       `json:"rooms"`
	Location  string        `json:"location"`
	Features  []string      `json:"features"`
	Image     *string       `json:"image"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewResourceResponse(r *registry.Record) ResourceResponse {
	features := r.Features
	if features == nil {
		features = []string{}
	}
	return ResourceResponse{
		Name:      r.Name,
		Address:   r.Address,
		Owner:     r.Owner,
		Price:     r.Price,
		Rooms:     r.Rooms,
		Location:  r.Location,
		Features:  features,
		Image:     r.Image,
		CreatedAt: r.CreatedAt,
	}
}

// CreateResourceRequest mirrors a createResource call: the descriptive fields plus the
// attached deposit and gas.
type CreateResourceRequest struct {
	Name     string        `json:"name" binding:"required"`
	Price    amount.Amount `json:"price"`
	Rooms    *amount.U64   `json:"rooms"`
	Location string        `json:"location" binding:"required"`
	Features []string      `json:"features"`
	Image    *string       `json:"image"`
	Deposit  amount.Amount `json:"deposit"`
	Gas      amount.U64    `json:"gas"`
}

func (r *CreateResourceRequest) ToDomain() registry.CreateRequest {
	return registry.CreateRequest{
		Name:     r.Name,
		Price:    r.Price,
		Rooms:    r.Rooms.Uint64Ptr(),
		Location: r.Location,
		Features: r.Features,
		Image:    r.Image,
	}
}
