// SPDX-License-Identifier: EPL-2.0

/*
Package project stores timelines as versioned JSON song documents.

A Document is a plain snapshot: the meter, the output format, every
instrument with its settings and every note. Rendered audio and cached clips
are never stored; Build restores a timeline that compiles to the same buffer.

# Loading

Documents saved with a tempo of zero get the default tempo. Documents without
an id get a fresh one.

	doc, err := project.Load("~/songs/intro.json")
	if err != nil {
		return err
	}
	tl, err := doc.Build(library, synth.NewGenerator())
*/
package project
