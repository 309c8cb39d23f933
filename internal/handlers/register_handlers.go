package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/reward_ledger/cmd/docs"
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/reward_ledger/internal/core/ports/services"
	"github.com/SscSPs/reward_ledger/internal/middleware"
	"github.com/SscSPs/reward_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	authLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimitAuth)
	if err != nil {
		return fmt.Errorf("auth rate limit: %w", err)
	}
	earnLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimitEarn)
	if err != nil {
		return fmt.Errorf("earn rate limit: %w", err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	registerAuthRoutes(r, services, authLimiter)
	setupAPIV1Routes(r, cfg, services, earnLimiter)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// registerAuthRoutes mounts the public sign-in endpoints. They are limited per client IP.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, authLimiter *limiter.Limiter) {
	h := newAuthHandler(services.Auth)
	g := newGoogleOAuthHandler(services.GoogleOAuth, services.Auth)
	limit := middleware.GinMiddlewarize(authLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/telegram", limit, h.loginTelegram)
		auth.POST("/admin/login", limit, h.loginAdmin)
		auth.GET("/google/login", g.loginURL)
		auth.POST("/google/exchange-code", limit, g.exchangeCode)
	}
}

// setupAPIV1Routes configures the authenticated /api/v1 groups
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	earnLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerMeRoutes(v1, cfg, services, earnLimiter)
	registerAdminRoutes(v1, cfg, services)
}

// registerMeRoutes mounts the account holder's endpoints. The account is always the token subject.
func registerMeRoutes(v1 *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer, earnLimiter *limiter.Limiter) {
	accounts := newAccountHandler(services.Account, cfg.CurrencyExponent)
	earnings := newEarningHandler(services.Earning, services.Task, cfg.CurrencyExponent)
	withdrawals := newWithdrawalHandler(services.Withdrawal, cfg.CurrencyExponent, cfg.PendingStreamInterval)
	earnLimit := middleware.RateLimit(earnLimiter)

	me := v1.Group("/me", middleware.RequireRole(domain.RoleUser))
	{
		me.POST("/onboard", accounts.onboard)
		me.GET("", accounts.getMe)
		me.GET("/ledger", accounts.listMyLedger)
		me.GET("/tasks", earnings.listMyTasks)
		me.POST("/ad-sessions", earnLimit, earnings.startAdSession)
		me.POST("/earnings", earnLimit, earnings.applyEarning)
		me.POST("/withdrawals", withdrawals.createWithdrawal)
		me.GET("/withdrawals", withdrawals.listMyWithdrawals)
	}
}

func registerAdminRoutes(v1 *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	accounts := newAccountHandler(services.Account, cfg.CurrencyExponent)
	withdrawals := newWithdrawalHandler(services.Withdrawal, cfg.CurrencyExponent, cfg.PendingStreamInterval)
	tasks := newTaskHandler(services.Task)
	auth := newAuthHandler(services.Auth)

	admin := v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin))

	wr := admin.Group("/withdrawals")
	{
		wr.GET("/pending", withdrawals.listPending)
		wr.GET("/pending/stream", withdrawals.streamPending)
		wr.GET("/:withdrawalID", withdrawals.getWithdrawal)
		wr.POST("/:withdrawalID/approve", withdrawals.approve)
		wr.POST("/:withdrawalID/reject", withdrawals.reject)
	}

	ar := admin.Group("/accounts")
	{
		ar.GET("", accounts.listAccounts)
		ar.GET("/:accountID", accounts.getAccount)
		ar.GET("/:accountID/ledger", accounts.listAccountLedger)
		ar.PUT("/:accountID/suspension", accounts.setSuspension)
	}

	tr := admin.Group("/tasks")
	{
		tr.POST("", tasks.createTask)
		tr.GET("", tasks.listTasks)
		tr.GET("/:taskID", tasks.getTask)
		tr.PUT("/:taskID", tasks.updateTask)
		tr.DELETE("/:taskID", tasks.deleteTask)
	}

	admin.POST("/admins", middleware.RequireRole(domain.RoleSuperAdmin), auth.createAdmin)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
