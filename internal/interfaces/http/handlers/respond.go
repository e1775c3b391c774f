// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/your-org/tireshop-backend/internal/pkg/apperrors"
)

// respondError maps a service error onto the HTTP response. Stock
// errors carry the offending product so clients can highlight the
// right cart line; internal causes are never exposed.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(status, gin.H{
			"error": stockErr.Error(),
			"details": gin.H{
				"product_id":   stockErr.ProductID,
				"product_name": stockErr.ProductName,
				"requested":    stockErr.Requested,
				"available":    stockErr.Available,
			},
		})
		return
	}

	c.JSON(status, gin.H{
		"error": apperrors.UserMessage(err),
	})
}
