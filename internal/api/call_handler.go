package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/ops"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
)

// CallResponse wraps the typed result of one operation.
type CallResponse struct {
	Method ops.Method   `json:"method"`
	Result ops.Response `json:"result"`
}

type CallHandler struct {
	dispatcher *ops.Dispatcher
}

func NewCallHandler(dispatcher *ops.Dispatcher) *CallHandler {
	return &CallHandler{dispatcher: dispatcher}
}

//
// POST /v1/call
//

func (h *CallHandler) Call(c *gin.Context) {
	var env ops.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := ops.Decode(env.Method, env.Args)
	if err != nil {
		response.Error(c, err)
		return
	}

	sess := ops.Session{Caller: auth.GetAccountID(c)}
	result, err := h.dispatcher.Execute(c.Request.Context(), sess, env.Call(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CallResponse{Method: env.Method, Result: result})
}
