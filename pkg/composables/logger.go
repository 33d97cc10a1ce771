package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/iota-staffing/pkg/constants"
)

var ErrNoLogger = errors.New("logger not found")

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the logger from the context.
// Accepts both *logrus.Entry and *logrus.Logger values.
func UseLogger(ctx context.Context) (*logrus.Entry, error) {
	if ctx == nil {
		return nil, ErrNoLogger
	}
	switch typed := ctx.Value(constants.LoggerKey).(type) {
	case *logrus.Entry:
		return typed, nil
	case *logrus.Logger:
		return logrus.NewEntry(typed), nil
	default:
		return nil, ErrNoLogger
	}
}
