// File: internal/shop/handler.go
package shop

import (
	"strconv"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for shop handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new shop handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for shop operations. Reads are public;
// writes require authentication and a barber or admin role.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, barberRoleMW gin.HandlerFunc) {
	shopGroup := router.Group("/barbershops")
	{
		shopGroup.GET("", h.listShops)
		shopGroup.GET("/:idOrSlug", h.getShop)

		protected := shopGroup.Group("")
		protected.Use(authMW)
		protected.Use(barberRoleMW)
		{
			protected.POST("", h.createShop)
			protected.PUT("/:idOrSlug", h.updateShop)
		}
	}

	serviceGroup := router.Group("/services")
	{
		serviceGroup.GET("", h.listOfferings)

		protected := serviceGroup.Group("")
		protected.Use(authMW)
		protected.Use(barberRoleMW)
		{
			protected.POST("", h.createOffering)
		}
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
}

// resolveShop accepts either a UUID or a slug in the path.
func (h *Handler) resolveShop(c *gin.Context, preloadOfferings bool) (*Barbershop, error) {
	idOrSlug := c.Param("idOrSlug")
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return h.service.GetShopByID(c.Request.Context(), id, preloadOfferings)
	}
	return h.service.GetShopBySlug(c.Request.Context(), idOrSlug, preloadOfferings)
}

func (h *Handler) listShops(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("limit must be a positive integer."))
			return
		}
		limit = parsed
	}

	shops, err := h.service.GetAllShops(c.Request.Context(), limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]BarbershopResponse, len(shops))
	for i := range shops {
		responses[i] = ToBarbershopResponse(&shops[i])
	}
	common.RespondOK(c, "Barbershops retrieved successfully.", responses)
}

func (h *Handler) getShop(c *gin.Context) {
	s, err := h.resolveShop(c, true)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Barbershop retrieved successfully.", ToBarbershopResponse(s))
}

func (h *Handler) createShop(c *gin.Context) {
	var req CreateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	// Barbers may only create shops they own; admins may create for anyone.
	actorID := middleware.GetProfileIDFromContext(c)
	if middleware.GetUserRoleFromContext(c) != common.RoleAdmin && req.OwnerProfileID != actorID {
		common.RespondWithError(c, common.ErrForbidden.WithDetails("Barbers can only create their own shop."))
		return
	}

	s, err := h.service.CreateShop(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Barbershop created successfully.", ToBarbershopResponse(s))
}

func (h *Handler) updateShop(c *gin.Context) {
	existing, err := h.resolveShop(c, false)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	var req UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	s, err := h.service.UpdateShop(
		c.Request.Context(),
		existing.ID,
		middleware.GetProfileIDFromContext(c),
		middleware.GetUserRoleFromContext(c),
		req,
	)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Barbershop updated successfully.", ToBarbershopResponse(s))
}

// listOfferings handles GET /services?shop_id=&limit=
func (h *Handler) listOfferings(c *gin.Context) {
	shopID, err := uuid.Parse(c.Query("shop_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("shop_id must be a valid barbershop UUID."))
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("limit must be a positive integer."))
			return
		}
		limit = parsed
	}

	offerings, err := h.service.GetOfferings(c.Request.Context(), shopID, limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]OfferingResponse, len(offerings))
	for i := range offerings {
		responses[i] = ToOfferingResponse(&offerings[i])
	}
	common.RespondOK(c, "Offerings retrieved successfully.", responses)
}

// createOffering handles POST /services
func (h *Handler) createOffering(c *gin.Context) {
	var req CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	offering, err := h.service.CreateOffering(
		c.Request.Context(),
		req.BarbershopID,
		middleware.GetProfileIDFromContext(c),
		middleware.GetUserRoleFromContext(c),
		req,
	)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Offering created successfully.", ToOfferingResponse(offering))
}
