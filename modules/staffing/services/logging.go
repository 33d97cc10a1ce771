package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/iota-staffing/pkg/composables"
)

// logWithFields is a no-op when ctx carries no logger.
func logWithFields(ctx context.Context, level logrus.Level, msg string, fields logrus.Fields) {
	logger, err := composables.UseLogger(ctx)
	if err != nil {
		return
	}
	logger.WithFields(fields).Log(level, msg)
}
