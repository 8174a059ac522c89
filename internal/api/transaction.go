package api

import (
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion
	"time"                     // Time durations
	"fintrack/internal/domain" // Importing domain models
	"fintrack/internal/ledger" // Ledger domain service
	"fintrack/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// TransactionRequest is the body of POST /transactions and PUT /transactions/:id.
// WalletID is only read on create; a transaction never moves between wallets.
type TransactionRequest struct {
	WalletID uint                   `json:"wallet_id"` // Target wallet (create only)
	Type     domain.TransactionType `json:"type"`      // INCOME or EXPENSE
	Category string                 `json:"category"`  // Category label
	Amount   domain.Money           `json:"amount"`    // Decimal string or number
	Date     domain.Date            `json:"date"`      // YYYY-MM-DD
	Note     string                 `json:"note"`      // Optional note
}

func (r TransactionRequest) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		Type:     r.Type,
		Category: r.Category,
		Amount:   r.Amount,
		Date:     r.Date,
		Note:     r.Note,
	}
}

// transactionIDParam parses the :id path parameter
func transactionIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return 0, false
	}
	return uint(id), true
}

// CreateTransactionHandler records a transaction on a wallet (contributor or owner)
func CreateTransactionHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.WalletID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_id is required", "field": "wallet_id"})
			return
		}
		transaction, err := svc.CreateTransaction(c.Request.Context(), userID, req.WalletID, req.input())
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		// Invalidate cached transaction pages for this wallet
		invalidateTransactionCache(c.Request.Context(), rdb, req.WalletID)
		c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
	}
}

// GetTransactionHandler returns a single transaction (any wallet member)
func GetTransactionHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		transactionID, ok := transactionIDParam(c)
		if !ok {
			return
		}
		transaction, err := svc.GetTransaction(c.Request.Context(), userID, transactionID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": transaction})
	}
}

// ListTransactionsHandler returns one page of a wallet's transactions,
// served from the Redis page cache when possible
func ListTransactionsHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, err := strconv.ParseUint(c.Query("wallet_id"), 10, 32)
		if err != nil || walletID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_id is required", "field": "wallet_id"})
			return
		}
		// The caller must be a member before anything cached is served
		if _, err := svc.MemberRole(c.Request.Context(), userID, uint(walletID)); err != nil {
			writeLedgerError(c, err)
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		// Redis cache key
		cacheKey := "txlist:wallet:" + strconv.Itoa(int(walletID)) +
			":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := c.Request.Context()
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions,
				"page":         cached.Page,
				"page_size":    cached.PageSize,
				"total":        cached.Total,
				"total_pages":  cached.TotalPages,
				"cached":       true,
			})
			return
		}
		transactions, total, err := svc.ListTransactions(ctx, userID, uint(walletID), page, pageSize)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"transactions": transactions,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages,
			"cached":       false,
		}
		// Cache the page for 60 seconds; mutations invalidate it sooner
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateTransactionHandler replaces a transaction's fields (creator or wallet owner)
func UpdateTransactionHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		transactionID, ok := transactionIDParam(c)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		transaction, err := svc.UpdateTransaction(c.Request.Context(), userID, transactionID, req.input())
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		invalidateTransactionCache(c.Request.Context(), rdb, transaction.WalletID)
		c.JSON(http.StatusOK, gin.H{"transaction": transaction})
	}
}

// DeleteTransactionHandler removes a transaction (creator or wallet owner)
func DeleteTransactionHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		transactionID, ok := transactionIDParam(c)
		if !ok {
			return
		}
		// Load the wallet reference before the row disappears
		transaction, err := svc.GetTransaction(c.Request.Context(), userID, transactionID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		if err := svc.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
			writeLedgerError(c, err)
			return
		}
		invalidateTransactionCache(c.Request.Context(), rdb, transaction.WalletID)
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
	}
}
