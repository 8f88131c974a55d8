// Package web embeds the browser remote served by reel's remote control.
//
// The page logs in at /auth when the server asks for it, shows the state
// from /state, sends commands to /command and follows /events over a
// websocket.
package web

import (
	"embed"
	"io/fs"
	"os"
)

// DirEnv names a directory served instead of the embedded files, for
// working on the page without rebuilding.
const DirEnv = "REEL_WEB_DIR"

//go:embed dist/*
var assets embed.FS

// Assets returns the remote's files. When DirEnv points at a directory that
// directory is returned instead.
func Assets() fs.FS {
	if dir := os.Getenv(DirEnv); dir != "" {
		if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
			return os.DirFS(dir)
		}
	}

	sub, err := fs.Sub(assets, "dist")
	if err != nil {
		panic("failed to access embedded web assets: " + err.Error())
	}
	return sub
}
