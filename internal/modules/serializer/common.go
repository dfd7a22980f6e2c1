package serializer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netfield-io/sitesurvey/internal/modules/service"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger installs the process logger for 5xx reporting.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Response is the uniform envelope: {success, data} on the happy path,
// {success:false, error:{type,message}} otherwise.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

func Err(kind service.ErrorKind, msg string) Response {
	return Response{Success: false, Error: &ErrorBody{Type: string(kind), Message: msg}}
}

func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Response{Success: false, Error: &ErrorBody{Type: "AUTH_ERROR", Message: msg}}
}

func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		msg = msg + ": " + err.Error()
	}
	return Err(service.ErrKindValidation, msg)
}

func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	log.Error(msg, zap.Error(err))
	return Err(service.ErrKindInternal, msg)
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind service.ErrorKind) int {
	switch kind {
	case service.ErrKindValidation, service.ErrKindForeignKey:
		return http.StatusBadRequest
	case service.ErrKindNotFound:
		return http.StatusNotFound
	case service.ErrKindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders any service error with the right status. Unknown errors
// are logged and reported as INTERNAL_ERROR without leaking detail.
func WriteError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(StatusOf(svcErr.Kind), Err(svcErr.Kind, svcErr.Message))
		return
	}
	log.Error("unhandled service error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, Err(service.ErrKindInternal, "internal error"))
}
