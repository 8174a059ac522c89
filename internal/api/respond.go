package api

import (
	"errors"
	"net/http"

	"fintrack/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// writeLedgerError maps the ledger error taxonomy onto HTTP responses:
// validation 400, forbidden 403, not found 404, lifecycle violations 409,
// anything else 500 with the reason logged but not exposed.
func writeLedgerError(c *gin.Context, err error) {
	var (
		validation *ledger.ValidationError
		notFound   *ledger.NotFoundError
		state      *ledger.InvalidStateError
		transition *ledger.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason, "field": validation.Field})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, ledger.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.As(err, &state):
		c.JSON(http.StatusConflict, gin.H{"error": state.Reason})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": transition.Reason})
	default:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUserID extracts the authenticated user ID set by the JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return id, true
}
