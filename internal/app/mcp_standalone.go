package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mcpserver "summaryedit/internal/mcp"
)

// ServeMCP runs the editor as a standalone MCP server on stdin/stdout.
// It initializes storage and services and serves until stdin closes or the
// process is interrupted. Dirty sessions are saved on the way out.
func ServeMCP(a *App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Startup(ctx); err != nil {
		return err
	}
	defer a.Shutdown(context.Background())

	if a.cfg.InboxDir != "" {
		if err := a.inbox.Start(ctx); err != nil {
			a.log.Warn().Err(err).Msg("inbox disabled")
		}
	}

	srv := mcpserver.New(mcpserver.Deps{
		Sessions:  a.sessions,
		Clipboard: systemClipboard{},
		Log:       a.log.Logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Watch opens every payload dropped into the inbox directory until interrupted.
func Watch(a *App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Startup(ctx); err != nil {
		return err
	}
	defer a.Shutdown(context.Background())

	if err := a.inbox.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
