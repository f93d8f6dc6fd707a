package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient documents the event payloads consuming UIs receive. The
// row changes written by DatabaseClient already trigger Supabase Realtime on
// the orders, order_versions and messages tables; UI freshness never depends
// on explicit publishes (a missed event only delays a re-fetch).
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Go client has no direct Realtime publish; database writes trigger
	// Realtime automatically. Kept as the seam for explicit broadcast events.
	return nil
}

func (r *RealtimeClient) PublishOrderEvent(orderID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("order:%s", orderID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func DeliverySubmittedPayload(orderID uuid.UUID, versionNumber int, contentURL string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":       orderID.String(),
		"status":         "delivered",
		"version_number": versionNumber,
		"content_url":    contentURL,
	}
}

func VersionApprovedPayload(orderID uuid.UUID, versionNumber int) map[string]interface{} {
	return map[string]interface{}{
		"order_id":       orderID.String(),
		"status":         "completed",
		"version_number": versionNumber,
	}
}

func RevisionRequestedPayload(orderID uuid.UUID, versionNumber, remainingRevisions int) map[string]interface{} {
	return map[string]interface{}{
		"order_id":            orderID.String(),
		"status":              "processing",
		"version_number":      versionNumber,
		"remaining_revisions": remainingRevisions,
	}
}

func OrderAcceptedPayload(orderID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID.String(),
		"status":   "processing",
	}
}

func OrderCancelledPayload(orderID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID.String(),
		"status":   "cancelled",
	}
}
