// Package render holds the renderer capability and the built-in renderers.
//
// A Renderer receives the decoded header and raw payload of one frame and
// inserts a rendition into a Sink. The sink records which header produced
// each inserted region of the output, so hosts can answer "what made this".
//
// Built-ins are registered by name:
//
//	svg       SVG documents (placeholder, or forwarded as an image)
//	image     raster images re-emitted through kitty or iTerm2 graphics
//	html      sanitized HTML as styled text
//	latex     LaTeX with common macros replaced by Unicode
//	markdown  Markdown through glamour
//	json      indented (and coloured) JSON
//	text      text in the charset named by the header
//	dump      the catch-all: header plus text or hex dump of the payload
//
// NewTable compiles configuration rules against a named registry into the
// ordered table the decoder resolves types with.
package render
