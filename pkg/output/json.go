// Package output renders commitor results for the terminal: JSON for
// scripts, aligned tables, and styled message previews.
package output

import (
	"encoding/json"
	"io"
	"os"
)

// JSONToStdout writes data as indented JSON to stdout.
//
//	if outputJSON {
//	    return output.JSONToStdout(result)
//	}
func JSONToStdout(data interface{}) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as indented JSON to w.
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}
