package instructions

import "strings"

// TokenKind identifies a placeholder in a phrase template.
type TokenKind int

const (
	TokenCode TokenKind = iota
	TokenWayName
	TokenDestination
	TokenExitCode
	TokenExitIndex
	TokenRotaryName
	TokenLaneInstruction
	TokenModifier
	TokenDirection
	TokenWayPoint
)

var tokenKindNames = [...]string{
	TokenCode:            "code",
	TokenWayName:         "wayName",
	TokenDestination:     "destination",
	TokenExitCode:        "exitCode",
	TokenExitIndex:       "exitIndex",
	TokenRotaryName:      "rotaryName",
	TokenLaneInstruction: "laneInstruction",
	TokenModifier:        "modifier",
	TokenDirection:       "direction",
	TokenWayPoint:        "wayPoint",
}

// v5 dictionaries spell some placeholders differently.
var tokenAliases = map[string]TokenKind{
	"way_name":         TokenWayName,
	"exit":             TokenExitCode,
	"exit_number":      TokenExitIndex,
	"rotary_name":      TokenRotaryName,
	"lane_instruction": TokenLaneInstruction,
	"nth":              TokenWayPoint,
	"name":             TokenWayName,
	"ref":              TokenCode,
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "unknown"
	}
	return tokenKindNames[k]
}

// ParseTokenKind resolves a placeholder name, accepting both the camelCase
// names and the v5 dictionary spellings.
func ParseTokenKind(name string) (TokenKind, bool) {
	for k, n := range tokenKindNames {
		if n == name {
			return TokenKind(k), true
		}
	}
	k, ok := tokenAliases[name]
	return k, ok
}

// TokenHook rewrites a token value before it is inserted, for example to add
// markup. It must tolerate being applied to parts of a value that is later
// inserted whole.
type TokenHook func(kind TokenKind, value string) string

// Rendered is a value that has already been through the TokenHook. Render
// inserts it verbatim.
type Rendered string

// RenderContext holds the computed replacement for every token kind.
type RenderContext struct {
	Code            string
	WayName         Rendered
	Destination     string
	ExitCode        string
	ExitIndex       string // ordinal, e.g. "2nd"
	RotaryName      string
	LaneInstruction string
	Modifier        string
	Direction       string
	WayPoint        string
}

// value returns a string, or a Rendered for values the hook must skip.
func (c *RenderContext) value(kind TokenKind) any {
	switch kind {
	case TokenCode:
		return c.Code
	case TokenWayName:
		return c.WayName
	case TokenDestination:
		return c.Destination
	case TokenExitCode:
		return c.ExitCode
	case TokenExitIndex:
		return c.ExitIndex
	case TokenRotaryName:
		return c.RotaryName
	case TokenLaneInstruction:
		return c.LaneInstruction
	case TokenModifier:
		return c.Modifier
	case TokenDirection:
		return c.Direction
	case TokenWayPoint:
		return c.WayPoint
	}
	return ""
}

// Render replaces each {token} in template with its value from c. Unknown
// tokens and an unterminated "{" are copied through unchanged.
func Render(template string, c *RenderContext, hook TokenHook) string {
	var b strings.Builder
	b.Grow(len(template) + 32)

	rest := template
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		kind, ok := ParseTokenKind(rest[1:end])
		if !ok {
			b.WriteString(rest[:end+1])
		} else {
			b.WriteString(resolve(c, kind, hook))
		}
		rest = rest[end+1:]
	}
	return b.String()
}

func resolve(c *RenderContext, kind TokenKind, hook TokenHook) string {
	switch v := c.value(kind).(type) {
	case Rendered:
		return string(v)
	case string:
		if hook != nil {
			return hook(kind, v)
		}
		return v
	}
	return ""
}
