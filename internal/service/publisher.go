// Package service publishes listing events to the configured message
// broker.  Publishing is best effort: handlers log a failed publish and
// carry on.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/queue"
)

// Publisher delivers ListingEvents to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ListingEvent) error
	Close() error
}

// NopPublisher drops every event.  It is used when EVENTS_BROKER=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ListingEvent) error { return nil }
func (NopPublisher) Close() error                                      { return nil }

// NewPublisher builds the publisher selected by cfg.Broker.
func NewPublisher(cfg config.EventsConfig, log logrus.FieldLogger) (Publisher, error) {
	switch cfg.Broker {
	case config.BrokerAMQP:
		return NewAMQPPublisher(cfg.AMQPURL, cfg.Destination), nil
	case config.BrokerKafka:
		p, err := NewKafkaPublisher(cfg.KafkaBrokers, cfg.Destination, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return NopPublisher{}, nil
	}
}
