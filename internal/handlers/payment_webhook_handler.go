package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	ucPayment "github.com/BruksfildServices01/court-scheduler/internal/usecase/payment"
)

// PaymentWebhookHandler receives provider notifications. A nil confirm
// use case means automatic confirmation is disabled.
type PaymentWebhookHandler struct {
	confirm *ucPayment.ConfirmPayment
	secret  string
}

func NewPaymentWebhookHandler(confirm *ucPayment.ConfirmPayment, secret string) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{confirm: confirm, secret: secret}
}

type webhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	if h.confirm == nil {
		httperr.Unavailable(c, "payments_disabled", "Automatic payment confirmation is not configured.")
		return
	}

	if h.secret != "" {
		given := c.GetHeader("X-Webhook-Secret")
		if given == "" {
			given = c.Query("secret")
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
			httperr.Unauthorized(c, "invalid_webhook_secret", "Invalid webhook secret.")
			return
		}
	}

	typ, paymentID := notificationTarget(c)
	if typ != "payment" {
		// merchant_order and friends are acknowledged and ignored
		c.Status(http.StatusOK)
		return
	}
	if paymentID == "" {
		httperr.BadRequest(c, "missing_payment_id", "Notification has no payment id.")
		return
	}

	ctx := c.Request.Context()
	res, err := h.confirm.Execute(ctx, paymentID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("payment_id", paymentID).Msg("payment notification not applied")
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// notificationTarget reads the topic and payment id from either the JSON
// body or the legacy query form (?topic=payment&id=...).
func notificationTarget(c *gin.Context) (typ, id string) {
	var n webhookNotification
	_ = c.ShouldBindJSON(&n)

	typ = n.Type
	id = n.Data.ID

	if typ == "" {
		typ = c.Query("type")
	}
	if typ == "" {
		typ = c.Query("topic")
	}
	if id == "" {
		id = c.Query("data.id")
	}
	if id == "" {
		id = c.Query("id")
	}
	return strings.ToLower(strings.TrimSpace(typ)), strings.TrimSpace(id)
}
