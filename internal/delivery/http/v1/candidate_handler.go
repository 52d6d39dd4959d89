package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	engagementUC domain.EngagementUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, writes gin.HandlerFunc, engagementUC domain.EngagementUsecase) {
	handler := &CandidateHandler{engagementUC: engagementUC}

	candidates := r.Group("/candidates")
	{
		candidates.PATCH("/:id/status", writes, handler.UpdateStatus)
	}
}

// UpdateStatus lets the service owner accept, reject or close a candidacy.
func (h *CandidateHandler) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Status is required"))
		return
	}

	status := domain.CandidateStatus(req.Status)
	if err := h.engagementUC.UpdateCandidateStatus(c.Request.Context(), profileID(c), c.Param("id"), status); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate status updated", gin.H{"status": status})
}
