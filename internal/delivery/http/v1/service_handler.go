package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ServiceHandler struct {
	engagementUC domain.EngagementUsecase
	matchingUC   domain.MatchingUsecase
}

func NewServiceHandler(r *gin.RouterGroup, writes gin.HandlerFunc, engagementUC domain.EngagementUsecase, matchingUC domain.MatchingUsecase) {
	handler := &ServiceHandler{engagementUC: engagementUC, matchingUC: matchingUC}

	services := r.Group("/services")
	{
		services.POST("", writes, handler.CreateService)
		services.POST("/external", writes, handler.CreateExternalService)
		services.GET("/:id", handler.GetService)
		services.PUT("/:id", writes, handler.UpdateService)
		services.PUT("/:id/skills/:skillId", writes, handler.AddSkill)
		services.DELETE("/:id/skills/:skillId", writes, handler.RemoveSkill)
		services.PATCH("/:id/status", writes, handler.UpdateStatus)
		services.POST("/:id/apply", writes, handler.Apply)
		services.GET("/:id/suggestions", handler.SuggestProfiles)
	}
	r.GET("/me/services", handler.ListMine)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateService publishes an OPEN service owned by the caller.
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req domain.ServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	service, err := h.engagementUC.CreateService(c.Request.Context(), profileID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Service created", service)
}

// CreateExternalService records work done outside the marketplace.
func (h *ServiceHandler) CreateExternalService(c *gin.Context) {
	var req domain.ExternalServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	service, err := h.engagementUC.CreateExternalService(c.Request.Context(), profileID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "External service registered", service)
}

func (h *ServiceHandler) GetService(c *gin.Context) {
	service, err := h.engagementUC.GetService(c.Request.Context(), profileID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Service", service)
}

// UpdateService lets the owner edit a published service.
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	var req domain.ServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	service, err := h.engagementUC.UpdateService(c.Request.Context(), profileID(c), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Service updated", service)
}

func (h *ServiceHandler) AddSkill(c *gin.Context) {
	service, err := h.engagementUC.AddServiceSkill(c.Request.Context(), profileID(c), c.Param("id"), c.Param("skillId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill added", service)
}

func (h *ServiceHandler) RemoveSkill(c *gin.Context) {
	service, err := h.engagementUC.RemoveServiceSkill(c.Request.Context(), profileID(c), c.Param("id"), c.Param("skillId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill removed", service)
}

// ListMine honours ?scope=owned|active|completed and an optional ?status=.
func (h *ServiceHandler) ListMine(c *gin.Context) {
	scope := domain.ServiceScope(c.DefaultQuery("scope", string(domain.ServiceScopeOwned)))
	var status *domain.ServiceStatus
	if s := c.Query("status"); s != "" {
		st := domain.ServiceStatus(s)
		status = &st
	}

	services, err := h.engagementUC.ListServices(c.Request.Context(), profileID(c), scope, status)
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Services", services)
}

func (h *ServiceHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Status is required"))
		return
	}

	status := domain.ServiceStatus(req.Status)
	if err := h.engagementUC.UpdateServiceStatus(c.Request.Context(), profileID(c), c.Param("id"), status); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Service status updated", gin.H{"status": status})
}

func (h *ServiceHandler) Apply(c *gin.Context) {
	candidate, err := h.engagementUC.Apply(c.Request.Context(), profileID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", candidate)
}

// SuggestProfiles lists profiles worth inviting to the service.
func (h *ServiceHandler) SuggestProfiles(c *gin.Context) {
	profiles, err := h.matchingUC.SuggestProfiles(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Suggested profiles", profiles)
}
