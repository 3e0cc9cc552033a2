package events

import (
	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// LogHandler writes catalog events to a zap logger
type LogHandler struct {
	logger *zap.Logger
}

func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

var _ EventHandler = (*LogHandler)(nil)

func (h *LogHandler) CanHandle(eventType string) bool {
	return eventType == StockChangedEvent || eventType == EstimateRejectedEvent
}

func (h *LogHandler) Handle(event Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID()),
		zap.String("stream_id", event.StreamID()),
		zap.Int("version", event.Version()),
	}

	switch data := event.Data().(type) {
	case StockChanged:
		m := data.Movement
		fields = append(fields,
			zap.String("kind", m.Kind.String()),
			zap.String("reason", string(m.Reason)),
			zap.Int64("delta", int64(m.Delta)),
			zap.Int64("after", int64(m.After)))
		if m.Kind == entities.MaterialMovement {
			fields = append(fields, zap.String("grade", m.Grade.String()))
		}
	case EstimateRejected:
		fields = append(fields,
			zap.Int64("change", int64(data.Change)),
			zap.Int64("create_new", int64(data.CreateNew)),
			zap.Int("shortages", data.Shortages))
	}

	h.logger.Info(event.Type(), fields...)
	return nil
}
