package rabbitmq

import (
	"fmt"

	"github.com/rs/zerolog"

	loggermessage "github.com/gerryalvrz/psychat-solana/pkg/utilities/logger"
	"github.com/gerryalvrz/psychat-solana/pkg/utilities/timeutil"
)

func CreateRabbitmqLoggerSink(publisher IRabbitmqPublisher) func(string, zerolog.Level, timeutil.TimeUTC) {
	return func(msg string, level zerolog.Level, timestamp timeutil.TimeUTC) {
		loggerMessage := loggermessage.LoggerMessage{
			Level:     level.String(),
			Message:   msg,
			Timestamp: timestamp,
		}

		err := publisher.Publish(loggerMessage)
		if err != nil {
			// Avoid infinite recursion by not using the logger here
			fmt.Printf("Failed to publish log message to RabbitMQ: %v\n", err)
		}
	}
}
