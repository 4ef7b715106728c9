// Package echo provides a ToyyibPay webhook route handler for the
// labstack/echo framework.
package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
	"github.com/Afterkelas/toyyibpay-go/webhook"
)

// WebhookHandler adapts a webhook.Handler into an echo route. The gateway
// retries callbacks that do not receive a 2xx, so processing failures are
// acknowledged with success=false rather than an error status.
//
//	e := echo.New()
//	e.POST("/webhook/toyyibpay", toyyibecho.WebhookHandler(h))
func WebhookHandler(h *webhook.Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := h.ProcessRequest(c.Request()); err != nil {
			msg := "processing failed"
			if apiErr, ok := toyyibpay.AsError(err); ok {
				msg = apiErr.Message
			}
			return c.JSON(http.StatusOK, webhook.NewAck(false, msg))
		}
		return c.JSON(http.StatusOK, webhook.NewAck(true, ""))
	}
}
