package sse

import (
	"time"

	"github.com/GTDGit/catalog_assistant/internal/cart"
)

// SessionNotifier is the interface services use to emit display events.
type SessionNotifier interface {
	NotifyCartUpdated(sessionID string, lines []cart.Line)
	NotifyOrderSubmitted(sessionID string, order cart.Order)
	NotifyCatalogReloaded(products, purchases int)
}

// HubNotifier implements SessionNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyCartUpdated(sessionID string, lines []cart.Line) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(&Event{
		Event:     EventCartUpdated,
		SessionID: sessionID,
		Data:      map[string]interface{}{"items": lines},
		Timestamp: time.Now(),
	})
}

func (n *HubNotifier) NotifyOrderSubmitted(sessionID string, order cart.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(&Event{
		Event:     EventOrderSubmitted,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"Total Items": order.TotalItems,
			"Total Price": order.DisplayTotal(),
		},
		Timestamp: time.Now(),
	})
}

func (n *HubNotifier) NotifyCatalogReloaded(products, purchases int) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&Event{
		Event:     EventCatalogReloaded,
		Data:      map[string]int{"products": products, "purchases": purchases},
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyCartUpdated(sessionID string, lines []cart.Line)   {}
func (n *NopNotifier) NotifyOrderSubmitted(sessionID string, order cart.Order) {}
func (n *NopNotifier) NotifyCatalogReloaded(products, purchases int)           {}
