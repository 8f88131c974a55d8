package cli

import (
	"context"
	"fmt"

	"github.com/thruflo/reel/internal/auth"
	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/player"
	"github.com/thruflo/reel/internal/server"
	"github.com/thruflo/reel/web"
)

// startRemote serves p on --listen until ctx is done or the returned stop
// function is called. Without --listen it does nothing and returns a nil
// server.
func startRemote(ctx context.Context, p *player.Player) (*server.Server, func(), error) {
	if playListen == "" {
		return nil, func() {}, nil
	}

	hash, err := remotePasswordHash()
	if err != nil {
		return nil, nil, err
	}
	srv, err := server.New(p, server.Config{
		Addr:         playListen,
		PasswordHash: hash,
		Assets:       web.Assets(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create remote control: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Start(ctx); err != nil {
			logging.Error("remote control stopped", "error", err)
		}
	}()

	return srv, func() {
		cancel()
		srv.Stop()
		<-done
	}, nil
}

// remotePasswordHash returns the hash of the remote control password, taken
// from the environment or, with --password, from a prompt. An empty result
// leaves the server open.
func remotePasswordHash() (string, error) {
	password, ok := auth.Lookup()
	if !ok && playPassword {
		var err error
		password, err = auth.StdPrompter().PromptAndConfirm()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
	}
	if password == "" {
		logging.Warn("remote control has no password", "addr", playListen)
		return "", nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}
