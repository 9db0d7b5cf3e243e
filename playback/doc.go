/*
Package playback replays a directory of frame files as an endless animation.

A Player goes through four states:

	Idle --Load--> Ready --Start--> Playing --Stop/ctx--> Stopped

Each tick, the Player decodes the file at the current index, colours its
particles and hands positions and colours to the Renderer, then moves to the
next file, wrapping around after the last one. A file that can't be decoded
is logged and skipped, and playback goes on with the next one; the renderer
simply keeps showing the previous frame. Nothing is read ahead and there is no
catch up: if a tick takes longer than the interval, the next one is late.
*/
package playback
