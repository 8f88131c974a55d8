package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/reel/internal/auth"
	"github.com/thruflo/reel/internal/testutil"
)

func TestRemotePasswordHash(t *testing.T) {
	t.Setenv(auth.PasswordEnv, "")
	hash, err := remotePasswordHash()
	require.NoError(t, err)
	assert.Empty(t, hash, "no password leaves the server open")

	t.Setenv(auth.PasswordEnv, "hunter22")
	hash, err = remotePasswordHash()
	require.NoError(t, err)
	ok, err := auth.VerifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStartRemoteWithoutListen(t *testing.T) {
	srv, stop, err := startRemote(t.Context(), nil)
	require.NoError(t, err)
	assert.Nil(t, srv)
	assert.NotPanics(t, stop)
}

func TestPlayHeadlessWithRemote(t *testing.T) {
	t.Setenv(auth.PasswordEnv, "hunter22")
	movie := testutil.WriteMovie(t)
	out := captureOutput(t, playCmd)

	setFlag(t, playCmd, "headless", "true")
	setFlag(t, playCmd, "clips", "true")
	setFlag(t, playCmd, "duration", "300ms")
	setFlag(t, playCmd, "listen", "127.0.0.1:0")

	require.NoError(t, runPlay(playCmd, []string{filepath.Dir(movie)}))

	result := readHeadlessResult(t, out.Bytes())
	assert.True(t, strings.HasPrefix(result.Remote, "127.0.0.1:"), "remote %q", result.Remote)
}
