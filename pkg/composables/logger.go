package composables

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/renovaplan/renova/pkg/configuration"
	"github.com/renovaplan/renova/pkg/constants"
)

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to the global one.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(configuration.Use().Logger())
	}
	return logger.(*logrus.Entry)
}
