// Package frame implements the termime wire protocol.
//
// A frame travels inside a private OSC sequence:
//
//	ESC ] 5151 ; {"type":"image/png"} \n <payload> ESC \
//
// The header is a single-line JSON object that carries at least a "type" key.
// Any other key is preserved in Header and ignored by the core. The payload
// region is either standard Base64 of the raw content, or a reference URI of
// scheme file: or tmpfile: that the host reads from its filesystem. A tmpfile:
// reference is deleted once it has been read completely.
//
// Which form applies is decided by sniffing the payload region for the URI
// scheme, so the sender chooses the form and the receiver needs no extra
// header field.
package frame
