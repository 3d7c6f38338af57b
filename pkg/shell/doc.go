// Package shell provides the shell side of termime sessions: the init
// scripts that define the mimecat helper, the snippet that sources them, and
// their installation into the data directory.
package shell
