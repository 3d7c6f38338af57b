package mimecat

// Messages
const (
	MsgRootShort = "Send a file or standard input to the terminal as a termime frame"
	MsgRootLong  = `mimecat writes one termime frame (OSC 5151) to standard output so a
termime-aware terminal can render it inline.

With a FILE argument the frame carries a file:// reference to it and the type
is detected from the content unless --type is given. Without FILE, standard
input is read and sent inline; --type is then required.`
	MsgRootExample = `  mimecat plot.svg
  mimecat -t text/html page.html
  echo '{"a": 1}' | mimecat -t application/json
  mimecat --meta title=Results -t text/markdown < report.md`

	MsgFlagType    = "MIME type of the content (required when reading standard input)"
	MsgFlagMeta    = "Extra header metadata as key=value (repeatable)"
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
)
