package handler

import (
	domainUser "company-data-manager/internal/domain/user"
	"company-data-manager/internal/logger"
	"company-data-manager/internal/middleware"
	appErrors "company-data-manager/pkg/errors"
	"company-data-manager/pkg/utils"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusByCode maps each error code to its HTTP status.
var statusByCode = map[string]int{
	appErrors.CodeDuplicateEmail:     http.StatusConflict,
	appErrors.CodeNoSuchAccount:      http.StatusUnauthorized,
	appErrors.CodeInvalidCredentials: http.StatusUnauthorized,
	appErrors.CodeNotFound:           http.StatusNotFound,
	appErrors.CodeValidationFailed:   http.StatusBadRequest,
	appErrors.CodeUnauthorized:       http.StatusForbidden,
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			utils.CodedErrorResponse(c, status, appErr.Code, appErr.Field, appErr.Message)
			return
		}
	}

	logger.WithRequestID(middleware.GetRequestID(c)).Error("Internal server error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	_ = c.Error(err)
	utils.CodedErrorResponse(c, http.StatusInternalServerError, appErrors.CodeStorageError, "", "Internal server error")
}

func respondBadBody(c *gin.Context) {
	utils.CodedErrorResponse(c, http.StatusBadRequest, appErrors.CodeValidationFailed, "", "Invalid request body")
}

// actorFrom returns the authenticated caller or writes a 401.
func actorFrom(c *gin.Context) (domainUser.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.CodedErrorResponse(c, http.StatusUnauthorized, appErrors.CodeUnauthorized, "", domainUser.ErrNotAuthenticated.Error())
		return domainUser.Actor{}, false
	}
	return actor, true
}

// idParam parses a positive integer path parameter or writes a 400.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.CodedErrorResponse(c, http.StatusBadRequest, appErrors.CodeValidationFailed, name, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
