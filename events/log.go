package events

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablesession-api/utils"
)

// LogPublisher writes events to the info logger. Used when no broker is
// configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	utils.InfoLogger.WithFields(logrus.Fields{
		"key":   key,
		"event": value,
	}).Info("event published")
	return nil
}

func (LogPublisher) Close() error { return nil }
