package router

import (
	"time"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/config"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/handler"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/infra"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/middleware"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/service"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailerCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	programRepo := repository.NewProgramRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	tokenRepo := repository.NewScanTokenRepository(db)
	eventRepo := repository.NewStampEventRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	identity := service.NewIdentityResolver(userRepo)
	guard := service.NewStaffGuard(staffRepo)
	authSvc := service.NewAuthService(userRepo, cfg)
	walletSvc := service.NewWalletService(membershipRepo, tokenRepo, businessRepo, programRepo, cfg)
	businessSvc := service.NewBusinessService(businessRepo, staffRepo, userRepo, guard)
	programSvc := service.NewProgramService(programRepo, guard)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	scanSvc := service.NewScanService(userRepo, businessRepo, programRepo, membershipRepo, tokenRepo, eventRepo, guard, dispatcher, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	walletH := handler.NewWalletHandler(identity, walletSvc)
	scanH := handler.NewScanHandler(identity, scanSvc)
	businessH := handler.NewBusinessHandler(identity, businessSvc, programSvc, scanSvc)
	programH := handler.NewProgramHandler(identity, programSvc)
	previewH := handler.NewJoinPreviewHandler(businessRepo, programRepo, rdb)
	healthH := handler.NewHealthHandler(db, rdb, mailerCB)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Join preview — no auth required, the QR poster hangs in a shop window
	r.GET("/v1/join/:externalId/preview", previewH.Preview)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		wallet := v1.Group("/wallet")
		{
			wallet.GET("", walletH.ListCards)
			wallet.POST("/join", walletH.Join)
			wallet.POST("/memberships/:id/token", walletH.IssueToken)
		}

		// Scan endpoints get a tighter per-IP budget: a counter terminal
		// produces at most a few requests per second even at rush hour.
		scan := v1.Group("/scan", middleware.RateLimiter(60, time.Minute))
		{
			scan.POST("/resolve", scanH.Resolve)
			scan.POST("/stamp", scanH.AddStamp)
			scan.POST("/redeem", scanH.RedeemReward)
		}

		businesses := v1.Group("/businesses")
		{
			businesses.POST("", businessH.Create)
			businesses.GET("/mine", businessH.ListMine)
			businesses.GET("/:id", businessH.Get)
			businesses.PUT("/:id/active", businessH.SetActive)

			businesses.POST("/:id/staff", businessH.InviteStaff)
			businesses.GET("/:id/staff", businessH.ListStaff)
			businesses.DELETE("/:id/staff/:userId", businessH.RemoveStaff)

			businesses.GET("/:id/events", businessH.ListEvents)

			businesses.POST("/:id/programs", programH.Create)
			businesses.GET("/:id/programs", programH.List)
			businesses.PUT("/:id/programs/:programId", programH.Update)
			businesses.PUT("/:id/programs/:programId/active", programH.SetActive)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
