// Command pipebench measures a quicksort on CPUs with deeper and deeper pipelines.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		logrus.WithError(err).Error("pipebench failed")
		os.Exit(1)
	}
}
