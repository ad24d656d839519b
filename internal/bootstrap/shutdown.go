package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/OsuLink_Go/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server       *server.Server
	Repositories *Repositories
}

// GracefulShutdown stops the HTTP server first so no request is mid-flight,
// then closes storage connections.
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Repositories != nil {
		slog.Info(LogMsgClosingStorage)
		components.Repositories.Close()
	}

	slog.Info(LogMsgServerStopped)
}
