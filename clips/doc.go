// SPDX-License-Identifier: EPL-2.0

/*
Package clips provides the source clips instruments are built from.

A source clip is a named synthesizer parameter set plus a preview render of
it. Presets are registered from code or JSON; recordings are decoded from
wav, aiff, mp3 or ogg files and played back through the synth.Sample wave.

# Handles

Library.Acquire returns a reference counted Handle. The preview clip is
rendered on the first acquire and handed to the Disposer when the last
handle is released.

	lib := clips.NewLibrary(synth.NewGenerator(), clips.WithDisposer(bin))
	_ = lib.LoadDir("~/sounds")
	h, err := lib.Acquire("lead")
	...
	h.Release()

# Bin

Bin is a Disposer that queues clips until Flush, for hosts that must free
audio resources on a specific goroutine.
*/
package clips
