package proto

import (
	"errors"
	"strconv"
	"strings"
)

// Command names recognized by the relay.
const (
	CmdNick    = "/nick"
	CmdList    = "/list"
	CmdCreate  = "/create"
	CmdJoin    = "/join"
	CmdWhisper = "/w"
	CmdExit    = "/exit"
	CmdQuit    = "/quit"
)

// ErrNotANumber is returned by Int when the argument has no leading integer.
var ErrNotANumber = errors.New("not a number")

// Command is one received unit split into its leading token and the rest.
type Command struct {
	Name string
	Args string
	Raw  []byte
}

// Parse splits a unit on its first whitespace-delimited token.
// Args is everything after that token, untrimmed.
func Parse(unit []byte) Command {
	name, rest := NextToken(string(unit))
	return Command{Name: name, Args: rest, Raw: unit}
}

// Arg returns the first whitespace-delimited token of Args.
func (c Command) Arg() string {
	tok, _ := NextToken(c.Args)
	return tok
}

// Int parses a leading signed decimal integer from Args after skipping
// whitespace. Trailing characters after the digits are ignored.
func (c Command) Int() (int, error) {
	s := strings.TrimLeftFunc(c.Args, isSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, ErrNotANumber
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Whisper splits Args into a target nickname and the message text.
// The text is the rest of the line after the target, with its leading
// whitespace kept and the line terminator dropped.
func (c Command) Whisper() (target, text string) {
	target, rest := NextToken(c.Args)
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return target, rest
}

// NextToken skips leading whitespace and returns the next token and the
// remainder that follows it.
func NextToken(s string) (tok, rest string) {
	s = strings.TrimLeftFunc(s, isSpace)
	end := strings.IndexFunc(s, isSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
