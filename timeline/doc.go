// SPDX-License-Identifier: EPL-2.0

/*
Package timeline compiles notes placed against instruments into one 16-bit
PCM buffer.

# Model

A Timeline owns a Meter, a set of instruments and a list of notes. An
instrument is a source clip acquired from a Provider plus playback settings
(volume, start offset and envelope duration mode). Instrument ids are the
first free non-negative integer at registration, so ids freed by
RemoveInstrument are reused.

Notes are values. Editing is done through the Timeline: AddNote, RemoveNote,
ReplaceNote, TransposeNote and ShiftAllNotesForInstrument.

# Compilation

Every mutation marks the timeline Dirty. Buffer recompiles on first access
after a mutation:

  - every note is placed at beat*stepsPerBeat*samplesPerStep +
    subStep*samplesPerStep plus the instrument start offset
  - its clip is looked up in the per-note cache, keyed by instrument, pitch,
    step duration and volume, and rendered on a miss with the envelope
    fitted to the note duration
  - clips are summed by mixer.Mix, normalized when the sum leaves the 16-bit
    range

The buffer ends with one sample of silence after the last clip, padded to a
whole frame for multichannel output. A timeline without notes compiles to two
bytes of silence. A failed compile leaves the previous buffer and the Dirty
state untouched.

# Cache invalidation

Volume, source clip, duration mode and pitch shifts evict only the cache
entries of that instrument. Meter and tempo changes clear the whole cache.
Note edits keep the cache. Evicted clips are handed to the Disposer before
they are dropped.

# Concurrency

A Timeline is not safe for concurrent use. Callers serialize access.
*/
package timeline
