package identity

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type scriptedConsumer struct {
	bodies [][]byte
}

func (sc *scriptedConsumer) StartConsuming(handler func(amqp.Delivery)) {
	for _, body := range sc.bodies {
		handler(amqp.Delivery{Body: body})
	}
}

func TestSessionEndWorkerAppendsFromQueue(t *testing.T) {
	ledger := newFakeLedger()
	service, _, _, _ := newTestService(ledger)
	if _, err := service.MintIdentity(context.Background(), []byte("seed"), 1); err != nil {
		t.Fatalf("MintIdentity failed: %v", err)
	}

	body, err := json.Marshal(SessionEndMessage{Category: "anxiety"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	worker := &SessionEndWorker{
		Service:    service,
		Transcript: func() []byte { return []byte(`[{"role":"user","text":"hi"}]`) },
		Consumer:   &scriptedConsumer{bodies: [][]byte{[]byte("not json"), body}},
	}
	worker.StartService()

	// The malformed delivery is dropped; the valid one appends on top of
	// the initial mint.
	if len(ledger.submitted) != 2 {
		t.Fatalf("Submissions = %d, want 2", len(ledger.submitted))
	}
	instructionMethodIs(t, ledger.submitted[1], "append_history")
}

func TestSessionEndWorkerDropsWhenNoIdentity(t *testing.T) {
	ledger := newFakeLedger()
	service, _, _, _ := newTestService(ledger)

	body, _ := json.Marshal(SessionEndMessage{Category: "anxiety"})
	worker := &SessionEndWorker{
		Service:    service,
		Transcript: func() []byte { return nil },
		Consumer:   &scriptedConsumer{bodies: [][]byte{body}},
	}
	worker.StartService()

	if len(ledger.submitted) != 0 {
		t.Errorf("No submissions expected without an identity, got %d", len(ledger.submitted))
	}
}
