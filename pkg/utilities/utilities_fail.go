package utilities

import "github.com/gerryalvrz/psychat-solana/pkg/logger"

func FailOnError(err error, msg string) {
	if err != nil {
		logger.Default().Fatal(err, msg)
	}
}
