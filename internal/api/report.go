package api

import (
	"net/http"                 // HTTP status codes
	"strconv"                  // String conversion
	"fintrack/internal/ledger" // Ledger domain service

	"github.com/gin-gonic/gin" // Gin web framework
)

// ReportSummaryHandler returns the monthly per-category report for a wallet.
// Reports embed the derived balance, so they are computed fresh on every
// request and never cached.
func ReportSummaryHandler(svc *ledger.Service) gin.HandlerFunc {
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
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month is required", "field": "month"})
			return
		}
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year is required", "field": "year"})
			return
		}
		report, err := svc.Summary(c.Request.Context(), userID, uint(walletID), month, year)
		if err != nil {
			writeLedgerError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
