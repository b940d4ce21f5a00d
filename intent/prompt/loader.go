package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/classifier.txt
var classifierRaw string

// Classifier returns the system prompt for the LLM intent classifier with
// known labels filled in.
func Classifier(labels []string) string {
	known := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			known = append(known, l)
		}
	}
	list := "(none yet)"
	if len(known) > 0 {
		list = strings.Join(known, ", ")
	}
	return strings.TrimSpace(strings.ReplaceAll(classifierRaw, "{labels}", list))
}
