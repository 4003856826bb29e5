package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/uuid"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/validator"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseOptionalDate parses a calendar date that binding has already
// validated. Nil or empty input yields nil.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := validator.ParseDate(*s)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date "+*s)
	}
	return &d, nil
}

// parseDate parses a required calendar date.
func parseDate(s string) (time.Time, error) {
	d, err := validator.ParseDate(s)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date "+s)
	}
	return d, nil
}

// bindError converts a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. AppErrors keep
// their status, code and message; any other error is logged and reported as
// a generic internal error.
func respondWithError(c *gin.Context, err error) {
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
