package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lottolab/internal/errors"
)

// statusForCode maps application error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case apperrors.CodeValidationError, apperrors.CodeConfigInvalid:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInsufficientSamples, apperrors.CodeDegenerateExpectation,
		apperrors.CodeInvalidDegreesOfFreedom, apperrors.CodeEnumerationCapExceeded:
		return http.StatusUnprocessableEntity
	case apperrors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the uniform error payload for an application error.
func abortWithError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	c.AbortWithStatusJSON(statusForCode(code), gin.H{
		"error":      err.Error(),
		"error_code": code,
	})
}
