package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForKind maps error kinds onto HTTP status codes.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindStateConflict, apperrors.KindDuplicate:
		return http.StatusConflict
	case apperrors.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	case apperrors.KindDependencyFailure:
		return http.StatusBadGateway
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal errors are logged in full
// and reported to the client with a generic message.
func respondError(c *gin.Context, err error, what string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	body := dto.ErrorBody{Kind: string(kind)}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Kind == kind {
		body.Message = appErr.Message
		body.RecordID = appErr.RecordID
	} else if kind == apperrors.KindTimeout {
		body.Message = what + " timed out"
	} else if kind == apperrors.KindInternal {
		body.Message = "Failed to " + what
	} else {
		body.Message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("operation", what), slog.String("kind", string(kind)), slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.String("operation", what), slog.String("kind", string(kind)), slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: body})
}

func respondBadRequest(c *gin.Context, message string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid request", slog.String("error", message))
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
		Kind:    string(apperrors.KindValidation),
		Message: message,
	}})
}

// requireUser reads the authenticated user id, answering 401 when it is missing.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
