package application

import (
	"context"
	"log/slog"
)

// NotificationKind labels a negotiation state change worth telling someone about.
type NotificationKind string

const (
	NotifyCoverageRequested NotificationKind = "coverage_requested"
	NotifyTradeOffered      NotificationKind = "trade_offered"
	NotifyTradeApproved     NotificationKind = "trade_approved"
	NotifyTradeExecuted     NotificationKind = "trade_executed"
	NotifyTradeDenied       NotificationKind = "trade_denied"
	NotifyPickupOffered     NotificationKind = "pickup_offered"
	NotifyPickupApproved    NotificationKind = "pickup_approved"
	NotifyPickupDenied      NotificationKind = "pickup_denied"
)

// NotificationEvent describes a state change dispatched to the notification
// boundary.
type NotificationEvent struct {
	Kind    NotificationKind
	ShiftID string
	OfferID string
}

// Notifier delivers fire-and-forget signals on trade and pickup state
// changes. Delivery failure must never roll back a committed transition, so
// the interface cannot return an error.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent)
}

// LogNotifier records notification events on the structured log. It stands in
// for the external dispatch transport.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(ctx context.Context, event NotificationEvent) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification dispatched",
		"kind", event.Kind,
		"shift_id", event.ShiftID,
		"offer_id", event.OfferID,
	)
}
