// Package session ties one interactive subprocess to the host: it owns the
// renderer table, sink, filesystem and resolver options that would otherwise
// be global state, and performs the registration handshake that teaches the
// subprocess to emit frames.
//
// Handshakes by kind:
//
//	bash, zsh, sh, fish   source the installed init script (defines mimecat)
//	python, ipython       define and call the setup routine with the enabled
//	                      types and the inline size limit
//
// Any other kind is refused with a capability error.
package session
