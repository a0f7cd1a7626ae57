package cache

import (
	"fmt"
	"strings"
)

type EntityType string

const (
	EntityIntent  EntityType = "intent"
	EntityWebhook EntityType = "webhook"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, parts ...interface{}) string {
	keyParts := make([]string, 0, len(parts)+1)
	keyParts = append(keyParts, string(entity))
	for _, p := range parts {
		keyParts = append(keyParts, fmt.Sprint(p))
	}
	return strings.Join(keyParts, ":")
}

// IntentKey is where the response to a member's payment request is kept
// for replay under the same idempotency key.
func IntentKey(memberID uint, idempotencyKey string) string {
	return GenerateKey(EntityIntent, memberID, idempotencyKey)
}

// LockKey guards a key while the request that owns it is in flight.
func LockKey(key string) string {
	return key + ":lock"
}

// WebhookEventKey marks a processor event as handled.
func WebhookEventKey(eventID string) string {
	return GenerateKey(EntityWebhook, eventID)
}
