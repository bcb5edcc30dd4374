package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/veekshithcb/Qkartbackend/models"
)

const CheckoutCompleted = "checkout.completed"

// Publisher delivers checkout events to downstream consumers.
type Publisher interface {
	PublishCheckout(ctx context.Context, event models.CheckoutEvent) error
}

// NopPublisher drops every event. Used when EVENT_SINK=none.
type NopPublisher struct{}

func (NopPublisher) PublishCheckout(context.Context, models.CheckoutEvent) error { return nil }

func encode(event models.CheckoutEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout event: %w", err)
	}
	return data, nil
}
