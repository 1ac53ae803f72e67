package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	paymentsapp "github.com/propstack/backend/internal/application/payments"
	"github.com/propstack/backend/internal/domain/payments"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/propstack/backend/internal/infrastructure/config"
	"github.com/propstack/backend/internal/infrastructure/logger"
)

// Stripe webhook payloads are small, anything larger is rejected
const maxCallbackPayloadSize = 65536

// PaymentCallbackHandler receives checkout completion events from Stripe.
// The endpoint is called by Stripe and does not require authentication;
// the webhook signature is the authentication.
type PaymentCallbackHandler struct {
	BaseHandler
	paymentService *paymentsapp.PaymentService
	config         config.StripeConfig
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(paymentService *paymentsapp.PaymentService, cfg config.StripeConfig) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		paymentService: paymentService,
		config:         cfg,
	}
}

// callbackResponse is the acknowledgement returned to Stripe
type callbackResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HandleCallback processes a Stripe webhook event
// POST /api/v1/payments/callback
func (h *PaymentCallbackHandler) HandleCallback(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCallbackPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, callbackResponse{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxCallbackPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, callbackResponse{Message: "Payload too large"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, callbackResponse{Message: "Missing Stripe-Signature header"})
		return
	}

	event, err := webhook.ConstructEvent(payload, signature, h.config.WebhookSecret)
	if err != nil {
		log.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, callbackResponse{Message: "Webhook signature verification failed"})
		return
	}

	ack := callbackResponse{
		Received:  true,
		EventID:   event.ID,
		EventType: string(event.Type),
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		// Acknowledge unhandled event types so Stripe stops redelivering them
		ack.Message = "Event type ignored"
		c.JSON(http.StatusOK, ack)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Error("Failed to decode checkout session from webhook event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, callbackResponse{Message: "Malformed event payload"})
		return
	}

	completion := payments.CompletionEvent{
		PaymentID:     session.Metadata["payment_id"],
		LeaseID:       session.Metadata["lease_id"],
		TenantID:      session.Metadata["tenant_id"],
		ChargedAmount: decimal.New(session.AmountTotal, -2),
	}
	if session.PaymentIntent != nil {
		completion.ChargeReference = session.PaymentIntent.ID
	}

	if _, err := h.paymentService.Fulfill(c.Request.Context(), completion); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "INVALID_STATE" {
			// Redelivered event for an already settled payment
			ack.Message = "Payment already settled"
			c.JSON(http.StatusOK, ack)
			return
		}
		log.Error("Failed to fulfill payment from webhook event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		// Return 200 so Stripe does not retry errors that retrying cannot fix
		ack.Message = "Webhook received but processing encountered an issue"
		c.JSON(http.StatusOK, ack)
		return
	}

	ack.Message = "Payment settled"
	c.JSON(http.StatusOK, ack)
}
