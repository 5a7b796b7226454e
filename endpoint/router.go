package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ariebrainware/comorbidity-network/docs"
	"github.com/ariebrainware/comorbidity-network/logger"
	"github.com/ariebrainware/comorbidity-network/middleware"
)

// RouterOptions configures the HTTP surface around a Handler.
type RouterOptions struct {
	Log       *logger.Logger
	Redis     *redis.Client
	JWTSecret string
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// RecomputeLimit bounds recompute calls per client and window.
	RecomputeLimit middleware.RateLimitConfig
}

// NewRouter wires every route of the API.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	if opts.RecomputeLimit.Limit == 0 {
		opts.RecomputeLimit = middleware.RateLimitConfig{Limit: 5, Window: time.Minute}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.EndpointCallLogger(opts.Log))

	router.GET("/", h.Welcome)

	router.GET("/disease", h.SearchDiseases)
	router.GET("/disease/:id", h.GetDisease)

	router.GET("/comorbidity/top", h.TopComorbidities)
	router.GET("/comorbidity/runs/latest", h.LatestRun)
	router.POST("/comorbidity/recompute",
		middleware.RateLimiter(opts.Redis, opts.RecomputeLimit, opts.Log),
		middleware.RequireAdmin(opts.JWTSecret),
		h.Recompute)

	router.GET("/network", h.GetNetwork)

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
