package prompt

import (
	"strings"
	"testing"
)

func TestClassifierFillsLabels(t *testing.T) {
	t.Parallel()

	got := Classifier([]string{" greeting ", "", "ask_price"})
	if !strings.Contains(got, "Known labels: greeting, ask_price") {
		t.Fatalf("labels not rendered: %s", got)
	}
	if strings.Contains(got, "{labels}") {
		t.Fatal("placeholder left in prompt")
	}
}

func TestClassifierWithoutLabels(t *testing.T) {
	t.Parallel()

	if got := Classifier(nil); !strings.HasSuffix(got, "Known labels: (none yet)") {
		t.Fatalf("unexpected prompt tail: %q", got[len(got)-40:])
	}
}
