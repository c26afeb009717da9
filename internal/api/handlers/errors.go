package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/internal/utils"
)

// respondError maps service errors to status codes. Anything unrecognised is
// logged and reported as a generic 500.
func respondError(c *gin.Context, message string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		utils.SendValidationDetails(c, message, err)
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, moderation.ErrInvalidStatus),
		errors.Is(err, services.ErrNoFiles):
		utils.SendError(c, http.StatusBadRequest, message, err)
	case errors.Is(err, moderation.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		utils.SendError(c, http.StatusUnauthorized, message, err)
	case errors.Is(err, moderation.ErrForbidden):
		utils.SendError(c, http.StatusForbidden, message, err)
	case errors.Is(err, services.ErrCollegeNotFound),
		errors.Is(err, services.ErrHostelNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	case errors.Is(err, moderation.ErrInvalidTransition),
		errors.Is(err, services.ErrUserExists):
		utils.SendError(c, http.StatusConflict, message, err)
	case errors.Is(err, services.ErrBucketNotFound):
		utils.SendError(c, http.StatusServiceUnavailable, message, err)
	default:
		utils.SendInternalError(c, message, err)
	}
}

// bindJSON reports binding failures field by field and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			utils.SendValidationDetails(c, "Invalid request data", err)
		} else {
			utils.SendError(c, http.StatusBadRequest, "Invalid request data", err)
		}
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.SendValidationError(c, "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
