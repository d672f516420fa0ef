package identity

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/rabbitmq"
	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

const sessionEndConsumerAlias rabbitmq.ConsumerAlias = "SessionEndConsumer"

// SessionEndMessage is the wire shape companion frontends publish to close
// the current session and anchor it on the identity record.
type SessionEndMessage struct {
	Category string `json:"category"`
}

// SessionEndWorker consumes session-close events from the queue and runs the
// same append pipeline the HTTP endpoint does. Transcript supplies the
// conversation blob at the moment the message arrives.
type SessionEndWorker struct {
	Service    *Service
	Transcript func() []byte
	Consumer   rabbitmq.IRabbitmqConsumer
}

func NewSessionEndWorker(service *Service, transcript func() []byte) *SessionEndWorker {
	return &SessionEndWorker{
		Service:    service,
		Transcript: transcript,
		Consumer:   rabbitmq.GetConsumer(sessionEndConsumerAlias),
	}
}

func (w *SessionEndWorker) GetServiceName() string {
	return string(sessionEndConsumerAlias)
}

func (w *SessionEndWorker) StartService() {
	workerLogger := logger.Default()

	if w.Consumer == nil {
		workerLogger.Warnf("No %s consumer configured, session-end queue disabled", sessionEndConsumerAlias)
		return
	}

	w.Consumer.StartConsuming(func(d amqp.Delivery) {
		var message SessionEndMessage
		if err := json.Unmarshal(d.Body, &message); err != nil {
			workerLogger.Errorf(err, "Discarding malformed session-end message")
			return
		}
		w.handle(message)
	})
}

func (w *SessionEndWorker) handle(message SessionEndMessage) {
	workerLogger := logger.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	outcome, err := w.Service.AppendSession(ctx, w.Transcript(), message.Category)
	if err != nil {
		if outcome.Indeterminate {
			workerLogger.Warnf("Queued session append indeterminate for %s: %v", outcome.Address, err)
			return
		}
		if reasoncodes.HasCode(err, reasoncodes.ErrIdentityRequired) {
			workerLogger.Warnf("Dropping queued session append, no identity record yet: %v", err)
			return
		}
		workerLogger.Errorf(err, "Queued session append failed")
		return
	}

	workerLogger.Infof("Queued session appended to %s: %s", outcome.Address, outcome.Signature)
}
