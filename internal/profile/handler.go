// File: internal/profile/handler.go
package profile

import (
	"net/http"
	"strconv"

	"barberlink_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies for profile HTTP handlers.
//
// The profile endpoints speak the store contract consumed by HTTPStore and by
// external clients: list responses are bare JSON arrays and single records are
// bare JSON objects, not the common.SuccessResponse envelope the rest of the
// API uses.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("ProfileHandler"),
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/profiles")
	{
		profiles.GET("", h.listProfiles)
		profiles.POST("", h.createProfile)
		profiles.GET("/:id", h.getProfileByID)
	}
}

// listProfiles handles GET /profiles?email=&role=&limit=
func (h *Handler) listProfiles(c *gin.Context) {
	email := c.Query("email")
	role := c.Query("role")

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("limit must be a positive integer."))
			return
		}
		limit = parsed
	}

	if role != "" && !common.IsValidRole(role) {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("role must be one of: client, barber, admin."))
		return
	}

	profiles, err := h.service.List(c.Request.Context(), email, role, limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// createProfile handles POST /profiles. Creation is idempotent by email:
// an existing record is returned with 200, a fresh one with 201.
func (h *Handler) createProfile(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
		} else {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		}
		return
	}

	created, isNew, err := h.service.CreateOrAdopt(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	c.JSON(status, created)
}

// getProfileByID handles GET /profiles/:id
func (h *Handler) getProfileByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
