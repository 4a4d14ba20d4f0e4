package instructions

import (
	"html"
	"slices"
)

// HTMLHook escapes every token value for HTML. Values of the listed kinds are
// also wrapped in <b class="kind">.
func HTMLHook(highlight ...TokenKind) TokenHook {
	return func(kind TokenKind, value string) string {
		v := html.EscapeString(value)
		if v == "" || !slices.Contains(highlight, kind) {
			return v
		}
		return `<b class="` + kind.String() + `">` + v + `</b>`
	}
}
