// Package prompt compiles a staged change set into the instruction text sent
// to a generation provider. Output is deterministic for a given input.
package prompt

import (
	"fmt"
	"strings"

	"github.com/frkngnc/commitor/pkg/changeset"
	"github.com/frkngnc/commitor/pkg/classify"
	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

// DefaultLanguage is used when no language name is supplied.
const DefaultLanguage = "English"

// LanguageDirective renders the restated language instruction.
func LanguageDirective(language string) string {
	name := strings.TrimSpace(language)
	if name == "" {
		name = DefaultLanguage
	}
	return fmt.Sprintf("Write the commit message in %s language.", cases.Upper(xlang.Und).String(name))
}

// FileLine renders one entry of the per-file table.
func FileLine(f changeset.FileChange) string {
	return fmt.Sprintf("- %s (%s): +%d -%d", f.Path, f.Kind, f.Additions, f.Deletions)
}

// Compile builds the user prompt for cs in the requested language.
func Compile(cs *changeset.ChangeSet, language string) string {
	files := cs.Files()
	stats := cs.Stats()

	var b strings.Builder
	b.WriteString("Analyze the git changes and create a commit message in conventional commit format.\n\n")

	b.WriteString("IMPORTANT OUTPUT FORMAT:\n")
	b.WriteString("1. Return the result EXACTLY in the following structure (no extra text, explanations, or code fences):\n")
	b.WriteString(TitleStart + "\n")
	b.WriteString("type(scope): short description\n")
	b.WriteString(TitleEnd + "\n")
	b.WriteString(BodyStart + "\n")
	b.WriteString("- bullet line describing change\n")
	b.WriteString("- another line\n")
	b.WriteString(BodyEnd + "\n")
	b.WriteString("2. There must be exactly one line between each block.\n")
	b.WriteString("3. Do not include additional commentary outside the markers.\n\n")

	b.WriteString(LanguageDirective(language) + "\n\n")

	fmt.Fprintf(&b, "Branch: %s\n", Sanitize(cs.Branch))
	fmt.Fprintf(&b, "Detected type: %s\n", cs.Type)
	if scope := classify.SuggestScope(files); scope != "" {
		fmt.Fprintf(&b, "Suggested scope: %s\n", Sanitize(scope))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Changed files (%d):\n", stats.FileCount)
	for _, f := range files {
		b.WriteString(Sanitize(FileLine(f)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Statistics:\n")
	fmt.Fprintf(&b, "- Total additions: %d\n", stats.TotalAdditions)
	fmt.Fprintf(&b, "- Total deletions: %d\n\n", stats.TotalDeletions)

	b.WriteString("Detailed changes:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "\n### %s\n%s\n", Sanitize(f.Path), Sanitize(f.Diff))
	}
	b.WriteString("\n")

	b.WriteString("Guidelines:\n")
	b.WriteString("- Title: type(scope): description (max 50 characters, lowercase description)\n")
	b.WriteString("- Body: concise bullet list describing key changes")
	return b.String()
}
