package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/middleware"
	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	EngagementUC   domain.EngagementUsecase
	MatchingUC     domain.MatchingUsecase
	ReviewUC       domain.ReviewUsecase
	ProfileUC      domain.ProfileUsecase
	NotificationUC domain.NotificationUsecase
	Tokens         middleware.TokenValidator
	FrontendURL    string
	Log            *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// CORS must be first.
	r.Use(middleware.CORSMiddleware(deps.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitMiddleware(deps.Log))
	r.Use(middleware.ErrorHandler(deps.Log))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		redisStatus := "ok"
		if err := redis.HealthCheck(c.Request.Context()); err != nil {
			redisStatus = "unavailable"
		}
		response.Success(c, http.StatusOK, "System operational", gin.H{"redis": redisStatus})
	})

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.ProfileUC, deps.Log))
	writes := middleware.RateLimitMiddleware(middleware.WriteRateLimitConfig(), deps.Log)
	{
		NewServiceHandler(protected, writes, deps.EngagementUC, deps.MatchingUC)
		NewCandidateHandler(protected, writes, deps.EngagementUC)
		NewReviewHandler(protected, writes, deps.ReviewUC)
		NewProfileHandler(protected, writes, deps.ProfileUC, deps.MatchingUC)
		NewNotificationHandler(protected, writes, deps.NotificationUC)
	}

	return r
}

func profileID(c *gin.Context) string {
	return c.GetString(domain.KeyProfileID)
}
