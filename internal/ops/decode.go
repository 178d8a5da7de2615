package ops

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrUnknownMethod = apperror.New(http.StatusBadRequest, "unknown method")
	ErrInvalidArgs   = apperror.New(http.StatusBadRequest, "invalid method arguments")
)

// Envelope is the wire form of a call: a method tag, its arguments and the attached scalars.
type Envelope struct {
	Method  Method          `json:"method" binding:"required"`
	Args    json.RawMessage `json:"args"`
	Gas     amount.U64      `json:"gas"`
	Deposit amount.Amount   `json:"deposit"`
}

// Call returns the attached scalars of the envelope.
func (e Envelope) Call() Call {
	return Call{Gas: uint64(e.Gas), Deposit: e.Deposit}
}

// Decode maps a method tag to its request type and strictly decodes args into it.
func Decode(method Method, args json.RawMessage) (Request, error) {
	switch method {
	case MethodCheckNameAvailable:
		return decodeInto[CheckNameAvailable](args)
	case MethodCreateResource:
		return decodeInto[CreateResource](args)
	case MethodListResources:
		return decodeInto[ListResources](args)
	case MethodGetOwner:
		return decodeInto[GetOwner](args)
	case MethodIsAvailable:
		return decodeInto[IsAvailable](args)
	case MethodBook:
		return decodeInto[Book](args)
	case MethodVerify:
		return decodeInto[Verify](args)
	case MethodInfo:
		return decodeInto[Info](args)
	default:
		return nil, ErrUnknownMethod
	}
}

func decodeInto[T Request](args json.RawMessage) (Request, error) {
	var req T
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return req, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, apperror.Wrap(err, ErrInvalidArgs.Code, ErrInvalidArgs.Message+": "+err.Error())
	}
	return req, nil
}
