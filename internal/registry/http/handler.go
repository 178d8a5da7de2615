package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

type Handler struct {
	service registry.Service
	log     *slog.Logger
}

func NewHandler(service registry.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, log: logger}
}

func (h *Handler) GetRegistry(c *gin.Context) {
	owner, err := h.service.GetOwner(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, RegistryResponse{
		Address:     h.service.Address(),
		Owner:       owner,
		CreationFee: h.service.CreationFee(),
	})
}

func (h *Handler) CheckName(c *gin.Context) {
	var uri request.ByNameRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	available, err := h.service.CheckNameAvailable(c.Request.Context(), uri.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Name: uri.Name, Available: available})
}

func (h *Handler) List(c *gin.Context) {
	handles, err := h.service.ListResources(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]HandleResponse, len(handles))
	for i, hd := range handles {
		items[i] = NewHandleResponse(hd)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, 1, len(items), len(items)))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateResourceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	caller := auth.GetAccountID(c)
	h.log.DebugContext(c.Request.Context(), "create resource call", "caller", caller, "gas", body.Gas)

	handle, err := h.service.CreateResource(c.Request.Context(), caller, body.Deposit, body.ToDomain())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewHandleResponse(*handle))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByNameRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	rec, err := h.service.Get(c.Request.Context(), uri.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResourceResponse(rec))
}
