package routes

import (
	"time"

	"github.com/Kariqs/bookstore-api/controllers"
	"github.com/Kariqs/bookstore-api/initializers"
	"github.com/Kariqs/bookstore-api/middlewares"
	"github.com/Kariqs/bookstore-api/services"
	"github.com/Kariqs/bookstore-api/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer is built from. Redis, Uploader and
// Mailer are optional.
type Deps struct {
	Config   *initializers.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Gateway  services.Gateway
	Uploader storage.Uploader
	Mailer   services.WelcomeSender
	Logger   *zap.Logger
}

// NewTokenService picks the redis denylist when a client is available and the
// revoked_tokens table otherwise.
func NewTokenService(cfg *initializers.Config, db *gorm.DB, redisClient *redis.Client) *services.TokenService {
	var denylist services.Denylist = services.NewDBDenylist(db)
	if redisClient != nil {
		denylist = services.NewRedisDenylist(redisClient)
	}
	return services.NewTokenService(cfg.JWTSecretKey, cfg.JWTTTL, denylist)
}

func NewRouter(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens := NewTokenService(deps.Config, deps.DB, deps.Redis)
	authService := services.NewAuthService(deps.DB, tokens, deps.Mailer, logger)

	auth := controllers.NewAuthController(authService)
	books := controllers.NewBookController(services.NewCatalogService(deps.DB, deps.Uploader, logger))
	cart := controllers.NewCartController(services.NewCartService(deps.DB, logger))
	orders := controllers.NewOrderController(services.NewOrderService(deps.DB, logger))
	borrowings := controllers.NewBorrowingController(services.NewBorrowingService(deps.DB, logger))
	payments := controllers.NewPaymentController(services.NewPaymentService(deps.DB, deps.Gateway, deps.Config.Mpesa, logger), logger)
	health := controllers.NewHealthController(services.NewHealthService(deps.DB, deps.Redis, logger))

	server := gin.New()
	server.Use(
		middlewares.TraceID(),
		middlewares.RequestLogger(logger),
		middlewares.Metrics(),
		gin.Recovery(),
	)
	server.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.HeaderTraceID},
		ExposeHeaders:    []string{"Content-Length", middlewares.HeaderTraceID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middlewares.RequireAuth(authService)
	user := server.Group("", requireAuth)
	admin := server.Group("/admin", requireAuth, middlewares.RequireAdmin(authService))

	DefaultRoutes(server, health)
	AuthRoutes(server, auth, requireAuth)
	BookRoutes(server, admin, books)
	CartRoutes(user, cart)
	OrderRoutes(user, admin, orders)
	BorrowingRoutes(user, admin, borrowings)
	PaymentRoutes(server, user, admin, payments, middlewares.OptionalAuth(authService))
	AdminRoutes(admin, auth)

	return server
}
