package mq

import "go.uber.org/zap"

// Noop stands in for RabbitMQ when no broker is configured.
type Noop struct {
	log *zap.Logger
}

func NewNoop(logger *zap.Logger) *Noop { return &Noop{log: logger} }

func (n *Noop) Enqueue(e Event) {
	n.log.Debug("mq disabled, event skipped", zap.String("action", e.Action))
}
