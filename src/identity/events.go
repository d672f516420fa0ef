package identity

import (
	"github.com/gagliardetto/solana-go"

	"github.com/gerryalvrz/psychat-solana/pkg/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/utilities"
	"github.com/gerryalvrz/psychat-solana/pkg/utilities/timeutil"
)

// MintEvent is published after a confirmed on-chain action so downstream
// consumers can react without polling the ledger.
type MintEvent struct {
	Action    string           `json:"action"`
	Owner     string           `json:"owner"`
	Address   string           `json:"address"`
	Signature string           `json:"signature"`
	Timestamp timeutil.TimeUTC `json:"timestamp"`
}

func (me MintEvent) Serialize() ([]byte, error) {
	return utilities.Serialize(me)
}

func (s *Service) publishMintEvent(action Action, owner, address solana.PublicKey, signature solana.Signature) {
	if s.Publisher == nil {
		return
	}
	event := MintEvent{
		Action:    string(action),
		Owner:     owner.String(),
		Address:   address.String(),
		Signature: signature.String(),
		Timestamp: timeutil.NowUTC(),
	}
	if err := s.Publisher.Publish(event); err != nil {
		logger.Default().Errorf(err, "Failed to publish %s event", action)
	}
}
