// internal/app/system/sanitize/sanitize_test.go

package sanitize_test

import (
	"strings"
	"testing"

	"github.com/campushq/campushub/internal/app/system/sanitize"
)

func TestHTMLKeepsFormatting(t *testing.T) {
	in := "<p><strong>Half price</strong> on <em>weekdays</em></p>"
	if got := sanitize.HTML(in); got != in {
		t.Errorf("safe markup changed: %q", got)
	}
}

func TestHTMLStripsScript(t *testing.T) {
	got := sanitize.HTML("<p>Deal!</p><script>alert(1)</script>")
	if got != "<p>Deal!</p>" {
		t.Errorf("script survived: %q", got)
	}
}

func TestHTMLStripsEventHandlers(t *testing.T) {
	got := sanitize.HTML(`<img src="x.png" onerror="alert(1)">`)
	if strings.Contains(got, "onerror") {
		t.Errorf("onerror survived: %q", got)
	}
}

func TestHTMLStripsJavascriptHref(t *testing.T) {
	got := sanitize.HTML(`<a href="javascript:alert(1)">click</a>`)
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript href survived: %q", got)
	}
}

func TestTextStripsAllMarkup(t *testing.T) {
	if got := sanitize.Text("  <b>Warden</b> "); got != "Warden" {
		t.Errorf("Text = %q, want %q", got, "Warden")
	}
}
