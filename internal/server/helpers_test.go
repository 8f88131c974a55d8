package server

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/reel/internal/auth"
	"github.com/thruflo/reel/internal/config"
	"github.com/thruflo/reel/internal/player"
	"github.com/thruflo/reel/internal/testutil"
)

const testPassword = "test-password-123"

// cheapParams keep argon2 fast in tests.
var cheapParams = auth.Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

// newTestPlayer returns a loaded three frame player on a fake clock.
func newTestPlayer(t *testing.T) (*player.Player, *testutil.FakeClock) {
	t.Helper()

	cfg := testutil.SampleConfig(3)
	cfg.Clips = []config.Clip{{Name: "intro", Start: 1, End: 2}}
	fc := testutil.NewFakeClock()
	p, err := player.New(cfg, player.WithClock(fc), player.WithFetcher(testutil.NewFakeFetcher()))
	require.NoError(t, err)
	t.Cleanup(p.Destroy)
	require.NoError(t, p.WaitLoaded(testutil.LoadContext(t)))
	return p, fc
}

// newTestServer returns a server for p. With a password the server
// requires login.
func newTestServer(t *testing.T, p *player.Player, password string, fc *testutil.FakeClock) *Server {
	t.Helper()

	cfg := Config{Addr: "127.0.0.1:0", Clock: fc}
	if password != "" {
		hash, err := auth.HashPasswordWith(password, cheapParams)
		require.NoError(t, err)
		cfg.PasswordHash = hash
	}
	s, err := New(p, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop() })
	return s
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPasswordWith(password, cheapParams)
	require.NoError(t, err)
	return hash
}
