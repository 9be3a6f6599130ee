package progress

import (
	"strings"
)

// Empty-editor sentinels: a contenteditable area that was touched and
// cleared leaves one of these behind instead of an empty string.
var emptyEditorSentinels = map[string]bool{
	"<br>":            true,
	"<div><br></div>": true,
}

// Sanitize normalizes raw evidence markup before it is stored or compared.
// It strips C0/C1 control characters, turns non-breaking spaces into plain
// spaces, collapses whitespace runs, trims, and collapses the known
// empty-editor sentinels to the empty string.
//
// Sanitize is idempotent: Sanitize(Sanitize(x)) == Sanitize(x). Every
// evidence write passes through here, so stored values are always in
// normal form.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r <= 0x1F || (r >= 0x7F && r <= 0x9F):
			// control characters dropped outright
		case r == ' ':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if emptyEditorSentinels[cleaned] {
		return ""
	}
	return cleaned
}
