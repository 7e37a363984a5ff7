package middleware

import (
	"fmt"
	"net/http"

	"siniestros-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorBody struct {
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// ErrorHandler traduce el último error registrado con c.Error al sobre JSON.
// Fuera de producción adjunta la traza.
func ErrorHandler(log *zap.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		appErr := apperr.As(last.Err)
		status := appErr.Status()

		if status >= http.StatusInternalServerError {
			log.Error("unexpected error",
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("path", c.Request.URL.Path),
				zap.String("detail", fmt.Sprintf("%+v", appErr.Err)),
			)
		} else {
			log.Debug("request rejected",
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("kind", string(appErr.Kind)),
				zap.Error(appErr),
			)
		}

		body := errorBody{Message: appErr.Message, Details: appErr.Details}
		if !production {
			body.Stack = appErr.Stack()
		}
		c.AbortWithStatusJSON(status, errorEnvelope{Error: body})
	}
}

// Recovery convierte un panic en un error interno que luego pinta ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok && err == http.ErrAbortHandler {
					panic(r)
				}
				_ = c.Error(apperr.Internal(fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}
