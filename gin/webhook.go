// Package gin provides a ToyyibPay webhook route handler for the
// gin-gonic framework.
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
	"github.com/Afterkelas/toyyibpay-go/webhook"
)

// WebhookHandler adapts a webhook.Handler into a gin route. The gateway
// retries callbacks that do not receive a 2xx, so processing failures are
// acknowledged with success=false rather than an error status.
//
//	r := gin.Default()
//	r.POST("/webhook/toyyibpay", toyyibgin.WebhookHandler(h))
func WebhookHandler(h *webhook.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := h.ProcessRequest(c.Request); err != nil {
			msg := "processing failed"
			if apiErr, ok := toyyibpay.AsError(err); ok {
				msg = apiErr.Message
			}
			c.JSON(http.StatusOK, webhook.NewAck(false, msg))
			return
		}
		c.JSON(http.StatusOK, webhook.NewAck(true, ""))
	}
}
