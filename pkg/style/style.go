// Package style holds the terminal control tokens that can be attached to a module.
// A token is emitted verbatim immediately before the module's content.
package style

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Token is a raw terminal control sequence.
type Token string

// Common control tokens.
const (
	None       Token = ""
	Escape     Token = "\x1b"
	Introducer Token = Token(termenv.CSI)
	Bell       Token = "\a"
	Backspace  Token = "\b"
	Tab        Token = "\t"
	Newline    Token = "\n"
	Return     Token = "\r"
	FormFeed   Token = "\f"

	Reset     Token = Token(termenv.CSI + termenv.ResetSeq + "m")
	Bold      Token = Token(termenv.CSI + termenv.BoldSeq + "m")
	Faint     Token = Token(termenv.CSI + termenv.FaintSeq + "m")
	Italic    Token = Token(termenv.CSI + termenv.ItalicSeq + "m")
	Underline Token = Token(termenv.CSI + termenv.UnderlineSeq + "m")
	Reverse   Token = Token(termenv.CSI + termenv.ReverseSeq + "m")

	CursorHome  Token = Token(termenv.CSI + "H")
	ClearScreen Token = Token(termenv.CSI + "2J")
	ClearLine   Token = Token(termenv.CSI + "2K")
)

// CursorTo moves the cursor to the 1-based line and column.
func CursorTo(line, column int) Token {
	return Token(termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, line, column))
}

// Foreground selects a 256-color foreground from a hex color ("#ff8800").
func Foreground(hex string) Token {
	c := termenv.ANSI256.Color(hex)
	if c == nil {
		return None
	}
	return Token(termenv.CSI + c.Sequence(false) + "m")
}

// Background selects a 256-color background from a hex color.
func Background(hex string) Token {
	c := termenv.ANSI256.Color(hex)
	if c == nil {
		return None
	}
	return Token(termenv.CSI + c.Sequence(true) + "m")
}

// Join concatenates tokens.
func Join(tokens ...Token) Token {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(string(t))
	}
	return Token(b.String())
}

var named = map[string]Token{
	"reset":        Reset,
	"bold":         Bold,
	"faint":        Faint,
	"italic":       Italic,
	"underline":    Underline,
	"reverse":      Reverse,
	"cursor_home":  CursorHome,
	"clear_screen": ClearScreen,
	"clear_line":   ClearLine,
	"bell":         Bell,
}

// Parse resolves a token name as used in application documents.
// Names may be combined with '+' ("bold+underline"); a leading '#' selects a
// foreground color.
func Parse(spec string) (Token, error) {
	if spec == "" {
		return None, nil
	}
	var parts []Token
	for _, name := range strings.Split(spec, "+") {
		name = strings.ToLower(strings.TrimSpace(name))
		if strings.HasPrefix(name, "#") {
			tok := Foreground(name)
			if tok == None {
				return None, fmt.Errorf("invalid color '%s'", name)
			}
			parts = append(parts, tok)
			continue
		}
		tok, ok := named[name]
		if !ok {
			return None, fmt.Errorf("unknown style token '%s'", name)
		}
		parts = append(parts, tok)
	}
	return Join(parts...), nil
}
