package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC  domain.ProfileUsecase
	matchingUC domain.MatchingUsecase
}

func NewProfileHandler(r *gin.RouterGroup, writes gin.HandlerFunc, profileUC domain.ProfileUsecase, matchingUC domain.MatchingUsecase) {
	handler := &ProfileHandler{profileUC: profileUC, matchingUC: matchingUC}

	r.GET("/me", handler.GetMe)
	r.PUT("/me", writes, handler.UpdateMe)
	r.PUT("/me/skills/:skillId", writes, handler.AddSkill)
	r.DELETE("/me/skills/:skillId", writes, handler.RemoveSkill)
	r.GET("/me/suggestions", handler.SuggestServices)
	r.GET("/profiles/:id", handler.GetProfile)
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	h.getProfile(c, profileID(c))
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req domain.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.UpdateProfile(c.Request.Context(), profileID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

func (h *ProfileHandler) AddSkill(c *gin.Context) {
	skills, err := h.profileUC.AddSkill(c.Request.Context(), profileID(c), c.Param("skillId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Skill added", skills)
}

func (h *ProfileHandler) RemoveSkill(c *gin.Context) {
	skills, err := h.profileUC.RemoveSkill(c.Request.Context(), profileID(c), c.Param("skillId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Skill removed", skills)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	h.getProfile(c, c.Param("id"))
}

// getProfile honours ?view=lite|basic|full.
func (h *ProfileHandler) getProfile(c *gin.Context, id string) {
	view := domain.ProfileView(c.DefaultQuery("view", string(domain.ProfileViewBasic)))
	profile, err := h.profileUC.GetProfile(c.Request.Context(), id, view)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

func (h *ProfileHandler) SuggestServices(c *gin.Context) {
	services, err := h.matchingUC.SuggestServices(c.Request.Context(), profileID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Suggested services", services)
}
