// pkg/message/parse.go

package message

import (
	"regexp"
	"strings"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/prompt"
)

var (
	invisibleChars   = strings.NewReplacer("\u200B", "", "\u200C", "", "\u200D", "", "\uFEFF", "", "\u2060", "")
	sentinelMarks    = strings.NewReplacer(prompt.TitleStart, "", prompt.TitleEnd, "", prompt.BodyStart, "", prompt.BodyEnd, "")
	bulletPrefix     = regexp.MustCompile(`^[*-]\s+`)
	punctuationLead  = regexp.MustCompile(`^[:\-\x{2013}]+`)
	titleLabel       = regexp.MustCompile(`(?i)^title\s*:\s*(.+)$`)
	descriptionLabel = regexp.MustCompile(`(?i)^description\s*:\s*(.+)$`)
	bareLabel        = regexp.MustCompile(`(?i)^(?:title|description)\s*:?$`)
)

// Parse recovers a CommitMessage from provider output. The sentinel-delimited
// form is preferred; anything else goes through the line heuristics.
// Output with no usable lines fails with EmptyGeneratedMessage.
func Parse(raw string) (CommitMessage, error) {
	if m, ok := parseStructured(raw); ok {
		return m, nil
	}
	return parseHeuristic(raw)
}

// extractSection returns the trimmed text between the first start and the
// first end marker. ok is false when either is missing or end precedes start.
func extractSection(source, start, end string) (string, bool) {
	si := strings.Index(source, start)
	ei := strings.Index(source, end)
	if si == -1 || ei == -1 || ei <= si {
		return "", false
	}
	return strings.TrimSpace(source[si+len(start) : ei]), true
}

func parseStructured(raw string) (CommitMessage, bool) {
	title, ok := extractSection(raw, prompt.TitleStart, prompt.TitleEnd)
	if !ok || title == "" {
		return CommitMessage{}, false
	}

	var bodyLines []string
	if section, ok := extractSection(raw, prompt.BodyStart, prompt.BodyEnd); ok {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimRight(line, " \t\r")
			if line == "" {
				continue
			}
			bodyLines = append(bodyLines, line)
		}
	}
	return New(title, strings.Join(bodyLines, "\n")), true
}

func parseHeuristic(raw string) (CommitMessage, error) {
	lines := normalizeLines(strings.Split(raw, "\n"))
	if len(lines) == 0 {
		return CommitMessage{}, commitor_err.New(commitor_err.EmptyGeneratedMessage,
			"empty commit message received from provider",
			"regenerate the message",
			"or switch provider/model with --provider / --model")
	}

	titleIndex := 0
	for i := len(lines) - 1; i >= 0; i-- {
		if IsConventional(lines[i]) {
			titleIndex = i
			break
		}
	}
	title := lines[titleIndex]

	seen := make(map[string]struct{})
	var body []string
	for _, line := range lines[titleIndex+1:] {
		if IsConventional(line) || strings.EqualFold(line, title) {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		body = append(body, line)
	}

	return New(title, strings.Join(body, "\n")), nil
}

// cleanLine strips zero-width characters, stray section markers and leading
// bullet or punctuation markers.
func cleanLine(line string) string {
	line = invisibleChars.Replace(line)
	line = sentinelMarks.Replace(line)
	line = strings.TrimSpace(line)
	line = bulletPrefix.ReplaceAllString(line, "")
	line = punctuationLead.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// normalizeLines cleans every line, unwraps Title:/Description: labels and
// drops empty or label-only lines.
func normalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = cleanLine(line)
		if line == "" {
			continue
		}
		if m := titleLabel.FindStringSubmatch(line); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				out = append(out, v)
			}
			continue
		}
		if m := descriptionLabel.FindStringSubmatch(line); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				out = append(out, v)
			}
			continue
		}
		if bareLabel.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}
