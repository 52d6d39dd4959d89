package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewUC domain.ReviewUsecase
}

func NewReviewHandler(r *gin.RouterGroup, writes gin.HandlerFunc, reviewUC domain.ReviewUsecase) {
	handler := &ReviewHandler{reviewUC: reviewUC}

	r.POST("/reviews", writes, handler.SubmitReview)

	profiles := r.Group("/profiles/:id")
	{
		profiles.GET("/reviews", handler.ListReviews)
		profiles.GET("/services/:serviceId/reviews", handler.ListServiceReviews)
	}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req domain.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	review, err := h.reviewUC.SubmitReview(c.Request.Context(), profileID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Review submitted", review)
}

// ListReviews returns the reviews a profile received, newest first.
// The type query parameter defaults to OWNER.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviewType := domain.ReviewType(c.DefaultQuery("type", string(domain.ReviewTypeOwner)))
	reviews, err := h.reviewUC.ListReviews(c.Request.Context(), c.Param("id"), reviewType)
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Reviews", reviews)
}

func (h *ReviewHandler) ListServiceReviews(c *gin.Context) {
	reviewType := domain.ReviewType(c.DefaultQuery("type", string(domain.ReviewTypeOwner)))
	reviews, err := h.reviewUC.ListServiceReviews(c.Request.Context(), c.Param("id"), c.Param("serviceId"), reviewType)
	if err != nil {
		c.Error(err)
		return
	}
	response.List(c, http.StatusOK, "Reviews", reviews)
}
