// Package router binds the webhook endpoint to the sync pipeline and
// the index gateway.
package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/camphaven/searchsync/internal/apperr"
	"github.com/camphaven/searchsync/internal/index"
	syncpipe "github.com/camphaven/searchsync/internal/sync"
	"github.com/camphaven/searchsync/internal/webhook"
)

// Processor reduces one delivery's notifications to a write batch.
type Processor interface {
	Process(ctx context.Context, notifications []webhook.ItemNotification) syncpipe.WriteBatch
}

// Applier writes a batch to the search index.
type Applier interface {
	Apply(ctx context.Context, batch syncpipe.WriteBatch) (*index.ApplyResult, error)
}

type WebhookRouter struct {
	e         *echo.Echo
	verifier  webhook.Verifier
	processor Processor
	applier   Applier
}

func NewWebhookRouter(e *echo.Echo, verifier webhook.Verifier, processor Processor, applier Applier) *WebhookRouter {
	return &WebhookRouter{
		e:         e,
		verifier:  verifier,
		processor: processor,
		applier:   applier,
	}
}

func (r *WebhookRouter) Bind() {
	r.e.POST("/webhooks/content", r.contentHandler)
}

// contentHandler runs one delivery end to end: authenticate the raw
// body, parse it, process the notifications, apply the batch. The
// response reports how many records the delivery changed.
func (r *WebhookRouter) contentHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.NewInvalidPayloadWrap("failed to read webhook body", err)
	}

	signature := c.Request().Header.Get(webhook.SignatureHeader)
	if err := r.verifier.Verify(body, signature); err != nil {
		slog.Warn("rejected webhook with bad signature", "remote", c.RealIP())
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
	}

	notifications, err := webhook.ParseNotifications(body)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		return c.JSON(http.StatusOK, index.ApplyResult{})
	}

	ctx := c.Request().Context()
	batch := r.processor.Process(ctx, notifications)

	result, err := r.applier.Apply(ctx, batch)
	if err != nil {
		slog.Error("failed to apply write batch", "error", err,
			"upserts", len(batch.Upserts), "deletes", len(batch.Deletes))
		return echo.NewHTTPError(http.StatusBadGateway, "failed to write search index")
	}

	return c.JSON(http.StatusOK, result)
}
