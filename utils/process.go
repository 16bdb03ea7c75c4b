package utils

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/sirupsen/logrus"
)

// WithInterrupt returns a context that is cancelled on SIGINT or SIGTERM.
func WithInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func HandleSubroutinePanic(identifier string) {
	if err := recover(); err != nil {
		logrus.Errorf("uncaught panic in %v subroutine: %v, stack: %v", identifier, err, string(debug.Stack()))
	}
}
