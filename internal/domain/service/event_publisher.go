package service

import (
	"context"

	"greenhood/internal/domain/entity"
)

// EventPublisher defines the interface for publishing committed item transitions to a message sink
type EventPublisher interface {
	// Publish sends one lifecycle event
	Publish(ctx context.Context, event *entity.LifecycleEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
