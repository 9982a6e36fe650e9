package middleware

import (
	"net/http"

	"github.com/eaglebank/user-accounts/shared/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindNotFound:   http.StatusNotFound,
	apperrors.KindValidation: http.StatusBadRequest,
	apperrors.KindDuplicate:  http.StatusBadRequest,
}

// StatusFor returns the HTTP status for an application error kind.
func StatusFor(kind apperrors.Kind) (int, bool) {
	code, ok := statusByKind[kind]
	return code, ok
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Status:  code,
		Message: message,
	})
}

func RespondWithValidationError(c *gin.Context, validationErrors []ValidationError) {
	RespondWithError(c, http.StatusBadRequest, JoinValidationErrors(validationErrors))
}

// RespondWithAppError writes err using the kind-to-status table.
// Errors outside the application taxonomy are logged and answered with a 500.
func RespondWithAppError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if code, ok := StatusFor(appErr.Kind()); ok {
			RespondWithError(c, code, appErr.Error())
			return
		}
	}
	Logger(c).WithError(err).Error("unhandled request error")
	_ = c.Error(err)
	RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

// Logger returns the request-scoped logger set by LoggingMiddleware,
// or the standard logger when none is present.
func Logger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
