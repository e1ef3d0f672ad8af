// pkg/execute/helpers.go

package execute

import (
	"strings"
	"time"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

func defaultTimeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return DefaultTimeout
}

func buildCommandString(command string, args ...string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// ExtractSummary picks up to two lines that look like errors from output,
// falling back to the first non-empty line.
func ExtractSummary(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "no output"
	}

	lines := strings.Split(trimmed, "\n")
	var candidates []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") ||
			strings.Contains(lower, "fatal") ||
			strings.Contains(lower, "failed") ||
			strings.Contains(lower, "cannot") {
			candidates = append(candidates, line)
		}
	}

	if len(candidates) > 0 {
		if len(candidates) > 2 {
			candidates = candidates[:2]
		}
		return strings.Join(candidates, " - ")
	}

	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "no output"
}
