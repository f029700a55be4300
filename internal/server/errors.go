package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/docsum/internal/common"
)

const codeTooLarge = "PAYLOAD_TOO_LARGE"

var statusByKind = map[string]int{
	common.CodeUnsupportedFormat: http.StatusUnsupportedMediaType,
	common.CodeDecode:            http.StatusUnprocessableEntity,
	common.CodeOCR:               http.StatusInternalServerError,
	common.CodeEmptyInput:        http.StatusBadRequest,
	common.CodeInvalidArgument:   http.StatusBadRequest,
	common.CodeAuth:              http.StatusUnauthorized,
	common.CodeService:           http.StatusBadGateway,
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) && common.KindOf(err) == common.CodeInternal {
		return http.StatusGatewayTimeout, "TIMEOUT"
	}
	kind := common.KindOf(err)
	if status, ok := statusByKind[kind]; ok {
		return status, kind
	}
	return http.StatusInternalServerError, common.CodeInternal
}

func handleError(c *gin.Context, err error) {
	status, kind := statusFor(err)
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Kind: kind, Message: common.MessageOf(err)}})
}

func tooLarge(c *gin.Context, limit int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": errorBody{
		Kind:    codeTooLarge,
		Message: "upload exceeds the " + humanBytes(limit) + " limit",
	}})
}
