// Package ops is the typed operation boundary in front of the registry and the ledgers.
// Every call names exactly one Request variant and yields exactly one Response variant.
package ops

import (
	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

// Session identifies who is calling. It is passed explicitly into every operation.
type Session struct {
	Caller string
}

// Call carries the opaque scalars attached to a call. Gas is never examined.
type Call struct {
	Gas     uint64
	Deposit amount.Amount
}

type Method string

const (
	MethodCheckNameAvailable Method = "checkNameAvailable"
	MethodCreateResource     Method = "createResource"
	MethodListResources      Method = "listResources"
	MethodGetOwner           Method = "getOwner"
	MethodIsAvailable        Method = "isAvailable"
	MethodBook               Method = "book"
	MethodVerify             Method = "verify"
	MethodInfo               Method = "info"
)

// Request is implemented only by the request types of this package.
type Request interface {
	Method() Method
	sealed()
}

type CheckNameAvailable struct {
	Name string `json:"name"`
}

type CreateResource struct {
	Name     string        `json:"name"`
	Price    amount.Amount `json:"price"`
	Rooms    *amount.U64   `json:"rooms"`
	Location string        `json:"location"`
	Features []string      `json:"features"`
	Image    *string       `json:"image"`
}

type ListResources struct{}

type GetOwner struct{}

type IsAvailable struct {
	Resource string        `json:"resource"`
	Date     calendar.Date `json:"date"`
}

type Book struct {
	Resource string        `json:"resource"`
	Date     calendar.Date `json:"date"`
}

type Verify struct {
	Resource string        `json:"resource"`
	Date     calendar.Date `json:"date"`
}

type Info struct {
	Resource string `json:"resource"`
}

func (CheckNameAvailable) Method() Method { return MethodCheckNameAvailable }
func (CreateResource) Method() Method     { return MethodCreateResource }
func (ListResources) Method() Method      { return MethodListResources }
func (GetOwner) Method() Method           { return MethodGetOwner }
func (IsAvailable) Method() Method        { return MethodIsAvailable }
func (Book) Method() Method               { return MethodBook }
func (Verify) Method() Method             { return MethodVerify }
func (Info) Method() Method               { return MethodInfo }

func (CheckNameAvailable) sealed() {}
func (CreateResource) sealed()     {}
func (ListResources) sealed()      {}
func (GetOwner) sealed()           {}
func (IsAvailable) sealed()        {}
func (Book) sealed()               {}
func (Verify) sealed()             {}
func (Info) sealed()               {}

func (r CreateResource) toRegistry() registry.CreateRequest {
	return registry.CreateRequest{
		Name:     r.Name,
		Price:    r.Price,
		Rooms:    r.Rooms.Uint64Ptr(),
		Location: r.Location,
		Features: r.Features,
		Image:    r.Image,
	}
}

// Response is implemented only by the response types of this package.
type Response interface {
	isResponse()
}

// BoolResponse answers checkNameAvailable, isAvailable, book and verify.
type BoolResponse struct {
	Value bool `json:"value"`
}

type AddressResponse struct {
	Address string `json:"address"`
}

type ResourcesResponse struct {
	Resources []registry.Handle `json:"resources"`
}

type OwnerResponse struct {
	Owner string `json:"owner"`
}

type InfoResponse struct {
	Name     string        `json:"name"`
	Price    amount.Amount `json:"price"`
	Rooms    *uint64       `json:"rooms,omitempty"`
	Location string        `json:"location"`
	Features []string      `json:"features"`
	Image    *string       `json:"image"`
	Bookings int64         `json:"bookings"`
}

func (BoolResponse) isResponse()      {}
func (AddressResponse) isResponse()   {}
func (ResourcesResponse) isResponse() {}
func (OwnerResponse) isResponse()     {}
func (InfoResponse) isResponse()      {}
