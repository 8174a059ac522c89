package api

import (
	"context"                  // Context for Redis operations
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion
	"fintrack/internal/domain" // Importing domain models
	"fintrack/internal/ledger" // Ledger domain service
	"fintrack/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// CreateWalletRequest is the body of POST /wallets
type CreateWalletRequest struct {
	Name     string `json:"name" binding:"required"` // Wallet name must be provided
	IsShared bool   `json:"is_shared"`               // Optional, defaults to personal
}

// UpdateWalletRequest is the body of PUT /wallets/:id; nil fields are left unchanged
type UpdateWalletRequest struct {
	Name     *string `json:"name"`      // New wallet name
	IsShared *bool   `json:"is_shared"` // May only flip false to true
}

// InviteRequest is the body of POST /wallets/:id/invite
type InviteRequest struct {
	UserID uint        `json:"user_id" binding:"required"` // Target user
	Role   domain.Role `json:"role" binding:"required"`    // CONTRIBUTOR or VIEWER
}

// walletIDParam parses the :id path parameter
func walletIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		// An unparsable id can never name a wallet
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return 0, false
	}
	return uint(id), true
}

// CreateWalletHandler creates a wallet owned by the authenticated user
func CreateWalletHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CreateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		wallet, err := svc.CreateWallet(c.Request.Context(), userID, req.Name, req.IsShared)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
	}
}

// ListWalletsHandler returns every wallet the authenticated user belongs to
func ListWalletsHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		wallets, err := svc.ListWallets(c.Request.Context(), userID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallets": wallets})
	}
}

// GetWalletHandler returns one wallet with members and derived balance
func GetWalletHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		wallet, err := svc.GetWallet(c.Request.Context(), userID, walletID)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// UpdateWalletHandler updates a wallet's name and sharing flag (owner only)
func UpdateWalletHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		var req UpdateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		wallet, err := svc.UpdateWallet(c.Request.Context(), userID, walletID, ledger.WalletPatch{
			Name:     req.Name,
			IsShared: req.IsShared,
		})
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// DeleteWalletHandler deletes a wallet with its members and transactions (owner only)
func DeleteWalletHandler(svc *ledger.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		if err := svc.DeleteWallet(c.Request.Context(), userID, walletID); err != nil {
			writeLedgerError(c, err)
			return
		}
		// Drop the cached transaction pages for the deleted wallet
		invalidateTransactionCache(c.Request.Context(), rdb, walletID)
		c.JSON(http.StatusOK, gin.H{"message": "Wallet deleted"})
	}
}

// InviteMemberHandler adds or re-roles a member on a shared wallet (owner only)
func InviteMemberHandler(svc *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		walletID, ok := walletIDParam(c)
		if !ok {
			return
		}
		var req InviteRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		member, err := svc.Invite(c.Request.Context(), userID, walletID, req.UserID, req.Role)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"member": member})
	}
}

// invalidateTransactionCache deletes the cached transaction pages of a wallet
// after any mutation (simple version: delete the first 5 default-size pages)
func invalidateTransactionCache(ctx context.Context, rdb *redis.Client, walletID uint) {
	prefix := "txlist:wallet:" + strconv.Itoa(int(walletID))
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, prefix+":page:"+strconv.Itoa(i)+":size:20")
	}
}
