package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// plainMarkdown is set by DisableColor.
var plainMarkdown bool

// RenderMarkdown renders md for the terminal. Width 0 keeps glamour's
// default wrap. If rendering fails the source is returned unchanged.
func RenderMarkdown(md string, width int) string {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if plainMarkdown {
		opts = []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return ensureNewline(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return ensureNewline(md)
	}
	return out
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
