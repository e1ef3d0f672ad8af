// pkg/language/label.go

package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Label turns a language code into the English display name used in prompts
// ("tr" -> "Turkish"). Anything that is not a recognised code is returned
// trimmed, so free-form names like "Brazilian Portuguese" pass through.
func Label(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := xlang.Parse(code)
	if err != nil || !isCode(code) {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

// isCode accepts bare two or three letter ISO 639 codes only.
func isCode(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
