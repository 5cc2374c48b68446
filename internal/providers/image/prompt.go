package image

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildInstruction composes the final provider instruction from the tribe
// prompt and an optional tribe display name. The prompt text is curated
// upstream and passed through verbatim; only light framing is added.
func BuildInstruction(prompt, tribeName string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))
	if name := strings.TrimSpace(tribeName); name != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Tribe: ")
		// Casers are stateful, so build one per call.
		b.WriteString(cases.Title(language.English).String(name))
	}
	if b.Len() == 0 {
		b.WriteString("Transform the person in the photo into a stylized portrait")
	}
	return b.String()
}
