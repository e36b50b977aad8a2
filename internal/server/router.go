// Package server assembles services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"cennygrosz/internal/events"
	"cennygrosz/internal/handlers"
	"cennygrosz/internal/llm"
	"cennygrosz/internal/middleware"
	"cennygrosz/internal/services"

	_ "cennygrosz/internal/docs" // swagger docs
)

// Deps are the process-level collaborators the router is built from.
type Deps struct {
	DB        *gorm.DB
	Tokens    *middleware.TokenIssuer
	Publisher events.Publisher
	Generator llm.Generator
	AITimeout time.Duration
}

// NewRouter wires every service and handler and registers the routes.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Publisher == nil {
		deps.Publisher = events.NewNopPublisher()
	}
	if deps.Generator == nil {
		deps.Generator = llm.NewUnavailable()
	}

	// Services
	db := deps.DB
	userService := services.NewUserService(db)
	walletService := services.NewWalletService(db, deps.Publisher)
	transactionService := services.NewTransactionService(db, walletService, deps.Publisher)
	goalService := services.NewGoalService(db)
	categoryService := services.NewCategoryService(db)
	dashboardService := services.NewDashboardService(db)
	assistantService := services.NewAssistantService(db, deps.Generator, deps.AITimeout)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, deps.Tokens)
	walletHandler := handlers.NewWalletHandler(walletService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	goalHandler := handlers.NewGoalHandler(goalService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))

	protected.GET("/auth/me", authHandler.Me)

	wallets := protected.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.ListWallets)
	wallets.GET("/:id", walletHandler.GetWallet)
	wallets.PUT("/:id", walletHandler.UpdateWallet)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)
	wallets.GET("/:id/transactions", transactionHandler.ListWalletTransactions)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)

	protected.GET("/dashboard/stats", dashboardHandler.GetStats)

	ai := protected.Group("/ai")
	ai.POST("/chat", assistantHandler.Chat)
	ai.GET("/history", assistantHandler.History)

	return router
}
