// Package player implements frame-sequence playback.
//
// A Player owns one movie: its frame index, clip queue, load state and
// playback state. All of its state changes happen under one mutex, whether
// they come from a public method, a playback tick, a clip pause timer or an
// image finishing loading, so the player behaves like a single-threaded
// event loop. Events are delivered after the mutex is released, which lets
// listeners call back into the player.
//
// Playback ticks carry the generation they were scheduled in. Stop, Pause and
// Play bump the generation, so a tick that was already on its way when one of
// them ran does nothing.
package player
