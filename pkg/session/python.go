package session

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"strconv"
)

//go:embed setup/termime_setup.py
var pythonSetup []byte

// PythonSetup returns the lines that define and call the Python setup
// routine. The routine travels Base64 encoded inside one exec() call, so the
// REPL reads it as a single statement whatever its indentation.
func PythonSetup(types string, inlineLimit int) string {
	encoded := base64.StdEncoding.EncodeToString(pythonSetup)
	return fmt.Sprintf("exec(__import__(\"base64\").b64decode(\"%s\").decode())\n__termime_setup(%s, %d)\n",
		encoded, strconv.Quote(types), inlineLimit)
}

// PythonSource returns the setup routine itself
func PythonSource() string {
	return string(pythonSetup)
}
