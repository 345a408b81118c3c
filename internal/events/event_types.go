package events

import (
	"time"

	"github.com/spec-kit/product-catalog/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventProductCreated EventType = "product_created"
	EventProductUpdated EventType = "product_updated"
	EventProductDeleted EventType = "product_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Login string      `json:"login"`
	Role  domain.Role `json:"role"`
}

// ProductChangedPayload payload for create and update events.
type ProductChangedPayload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
