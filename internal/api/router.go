package api

import (
	"fintrack/internal/ledger"     // Ledger domain service
	"fintrack/internal/middleware" // JWT middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires every route of the service. rdb may be nil, which disables
// the transaction page cache without changing any response shape.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.Default() // Gin router instance
	svc := ledger.New(db)

	// Auth routes (public)
	r.POST("/auth/register", RegisterHandler(db)) // Registration endpoint
	r.POST("/auth/login", LoginHandler(db, jwtSecret)) // Login endpoint

	// Everything else requires a valid JWT
	authed := r.Group("", middleware.JWTAuthMiddleware(jwtSecret))
	authed.GET("/me", MeHandler(db)) // Profile endpoint

	// Wallet routes
	wallets := authed.Group("/wallets")
	wallets.GET("", ListWalletsHandler(svc))              // List caller's wallets
	wallets.POST("", CreateWalletHandler(svc))            // Create wallet
	wallets.GET("/:id", GetWalletHandler(svc))            // Wallet detail with members and balance
	wallets.PUT("/:id", UpdateWalletHandler(svc))         // Rename / share wallet
	wallets.DELETE("/:id", DeleteWalletHandler(svc, rdb)) // Delete wallet and cascade
	wallets.POST("/:id/invite", InviteMemberHandler(svc)) // Invite member

	// Transaction routes
	transactions := authed.Group("/transactions")
	transactions.GET("", ListTransactionsHandler(svc, rdb))          // Paginated wallet history
	transactions.POST("", CreateTransactionHandler(svc, rdb))        // Record income/expense
	transactions.GET("/:id", GetTransactionHandler(svc))             // Single transaction
	transactions.PUT("/:id", UpdateTransactionHandler(svc, rdb))     // Edit transaction
	transactions.DELETE("/:id", DeleteTransactionHandler(svc, rdb))  // Delete transaction

	// Report routes
	authed.GET("/reports/summary", ReportSummaryHandler(svc)) // Monthly category report

	return r
}
