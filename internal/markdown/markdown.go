package markdown

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	renderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	policy = bluemonday.UGCPolicy()
)

// RenderSafe converts markdown to HTML and strips everything a user
// should not be able to inject (scripts, event handlers, iframes).
// Returns an empty string for empty input.
func RenderSafe(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		// goldmark only fails on writer errors, which bytes.Buffer never produces.
		log.Errorf("failed to render markdown: %v", err)
		return policy.Sanitize(source)
	}
	return strings.TrimSpace(policy.Sanitize(buf.String()))
}
