// pkg/prompt/sentinels.go

package prompt

import "strings"

// Sentinel literals delimit the structured sections of a generated message.
// pkg/message looks for exactly these strings; changing them is a breaking
// change to the response contract.
const (
	TitleStart = "<<COMMITOR_TITLE>>"
	TitleEnd   = "<<COMMITOR_TITLE_END>>"
	BodyStart  = "<<COMMITOR_BODY>>"
	BodyEnd    = "<<COMMITOR_BODY_END>>"
)

// ContractVersion is bumped whenever the sentinel literals change.
const ContractVersion = 1

const sentinelPrefix = "<<COMMITOR_"

// Sanitize defuses sentinel literals that appear in repository content (for
// example a diff of this very file) so they cannot be mistaken for the
// contract markers in the model's answer.
func Sanitize(s string) string {
	if !strings.Contains(s, sentinelPrefix) {
		return s
	}
	return strings.ReplaceAll(s, sentinelPrefix, "<< COMMITOR_")
}
