// Package style defines how termime decorates the text renditions it inserts
// into the terminal: placeholder boxes, headings, links, labels.
//
// Styles are declared in styles.yaml with adaptive colours and built into
// lipgloss styles bound to a renderer for the actual output. When the output
// is not a terminal (or NO_COLOR is set) the renderer uses the Ascii profile,
// so renditions stay plain text.
package style
