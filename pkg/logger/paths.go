// pkg/logger/paths.go

package logger

import (
	"os"

	"github.com/frkngnc/commitor/pkg/xdg"
)

// LogPath is the JSON log location. COMMITOR_LOG_FILE overrides it.
func LogPath() string {
	if p := os.Getenv("COMMITOR_LOG_FILE"); p != "" {
		return p
	}
	return xdg.XDGStatePath(xdg.AppName, "commitor.log")
}
