package loggermessage

import (
	"github.com/gerryalvrz/psychat-solana/pkg/utilities"
	"github.com/gerryalvrz/psychat-solana/pkg/utilities/timeutil"
)

type LoggerMessage struct {
	Level     string           `json:"level"`
	Message   string           `json:"message"`
	Timestamp timeutil.TimeUTC `json:"timestamp"`
}

func (lm LoggerMessage) Serialize() ([]byte, error) {
	return utilities.Serialize(lm)
}
