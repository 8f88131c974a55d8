// Package testutil provides shared test helpers for reel.
//
// # Clock
//
// FakeClock implements clock.Clock with manually advanced time. Advance runs
// every due callback synchronously, in time order, on the calling goroutine,
// including callbacks scheduled by earlier callbacks within the window:
//
//	fc := testutil.NewFakeClock()
//	p, _ := player.New(cfg, player.WithClock(fc))
//	fc.Advance(time.Second) // runs every tick due in the next second
//
// # Fixtures
//
//   - SampleConfig(n) - a valid config with n one-frame images at 10 fps
//   - FakeFetcher - in-memory fetcher; optionally gated per image so tests
//     decide when each load completes, and able to fail chosen images
//   - RecordingView - view that records what was shown
//   - WriteMovie, WritePNGs - on-disk movies for loader and CLI tests
//
// # Timeouts
//
//   - LoadContext(t) - context for waiting on a movie to finish loading
package testutil
