package stats

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/burnnote-go/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumers builds one consumer per usage topic, all persisting through
// the same store.
func NewConsumers(subscriber message.Subscriber, store Store, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicNoteStored, store.SaveNoteStored, logger),
		messaging.NewConsumer(subscriber, TopicNoteConsumed, store.SaveNoteConsumed, logger),
		messaging.NewConsumer(subscriber, TopicSweepCompleted, store.SaveSweepCompleted, logger),
	}
}
