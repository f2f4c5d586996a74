package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

// DocumentEvent is one message on a ddr.document.* topic.
type DocumentEvent struct {
	Event    string          `json:"event"` // "updated" or "deleted"
	Model    string          `json:"model"` // collection, entity, segment
	ID       string          `json:"id"`
	Document json.RawMessage `json:"document,omitempty"`
}

// HandleDocument processes one document event: updated documents are posted
// to the model's index, deleted ones removed. Malformed events are logged
// and skipped so the consumer keeps moving.
func HandleDocument(ctx context.Context, msg kafka.Message, mgr *docstore.Manager, ds *docstore.Docstore, logger *zap.Logger) {
	var ev DocumentEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		logger.Error("kafka: unmarshal document event failed",
			zap.String("topic", msg.Topic), zap.Error(err))
		return
	}
	if ev.Model == "" || ev.ID == "" {
		logger.Warn("kafka: document event missing model or id, skipping",
			zap.String("topic", msg.Topic))
		return
	}

	index := ds.IndexName(ev.Model)
	switch ev.Event {
	case "deleted":
		if err := mgr.DeleteDocument(ctx, index, ev.ID); err != nil {
			logger.Error("kafka: delete document failed",
				zap.String("index", index), zap.String("id", ev.ID), zap.Error(err))
			return
		}
		logger.Info("deleted document", zap.String("index", index), zap.String("id", ev.ID))

	default:
		if len(ev.Document) == 0 {
			logger.Warn("kafka: document event has no body, skipping",
				zap.String("index", index), zap.String("id", ev.ID))
			return
		}
		if err := mgr.PostJSON(ctx, index, ev.ID, ev.Document); err != nil {
			logger.Error("kafka: index document failed",
				zap.String("index", index), zap.String("id", ev.ID), zap.Error(err))
			return
		}
		logger.Info("indexed document", zap.String("index", index), zap.String("id", ev.ID))
	}
}
