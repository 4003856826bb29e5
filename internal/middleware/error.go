package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
)

// ErrorHandler renders the last error attached to the gin context when the
// handler did not write a response itself. Binding errors become
// INVALID_INPUT; anything that is not an AppError is logged and reported as
// INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err
		if last.IsType(gin.ErrorTypeBind) {
			err = apperrors.WithMessage(apperrors.ErrInvalidInput, last.Error())
		}

		appErr, expected := apperrors.Resolve(err)
		if !expected || appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"code", appErr.Code,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, appErr.Body())
	}
}
