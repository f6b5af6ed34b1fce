package release

import (
	gocontext "context"
	"fmt"
	"strings"

	"github.com/cgast/bughunt/pkg/gitx"
)

// MessageGenerator produces a commit message for a set of pending changes.
// This is the narrow contract for message construction; anything smarter
// (an LLM, a template engine) plugs in behind it.
type MessageGenerator interface {
	Generate(ctx gocontext.Context, entries []gitx.StatusEntry) (string, error)
}

// SummaryGenerator derives a message from the porcelain status alone.
type SummaryGenerator struct{}

// Generate implements MessageGenerator.
func (SummaryGenerator) Generate(_ gocontext.Context, entries []gitx.StatusEntry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("generate message: no changes")
	}

	var added, modified, deleted, other int
	for _, e := range entries {
		switch {
		case strings.Contains(e.Code, "A") || e.Code == "??":
			added++
		case strings.Contains(e.Code, "D"):
			deleted++
		case strings.Contains(e.Code, "M") || strings.Contains(e.Code, "R"):
			modified++
		default:
			other++
		}
	}

	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	if deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", deleted))
	}
	if other > 0 {
		parts = append(parts, fmt.Sprintf("%d other", other))
	}

	subject := fmt.Sprintf("chore: update %d files (%s)", len(entries), strings.Join(parts, ", "))

	// List a few paths in the body so the message is useful in `git log`.
	var body []string
	for i, e := range entries {
		if i == 8 {
			body = append(body, fmt.Sprintf("... and %d more", len(entries)-i))
			break
		}
		body = append(body, fmt.Sprintf("%s %s", e.Code, e.Path))
	}
	return subject + "\n\n" + strings.Join(body, "\n"), nil
}
