package commands

import (
	"strings"
)

// Intent is the kind of request a chat message carries.
type Intent string

const (
	IntentTime    Intent = "time"
	IntentOpen    Intent = "open"
	IntentUnknown Intent = "unknown"
)

const (
	timeKeyword = "tanya jam"
	openKeyword = "buka "
)

// Command represents a parsed user instruction typed into the chat box.
type Command struct {
	Intent Intent
	Target string // text after "buka ", trimmed; only set for IntentOpen
	Raw    string // original user message
}

// Parse inspects the incoming message and extracts a command.
// Matching is ordered and first-match-wins:
//
//	"... tanya jam ..."    -> IntentTime
//	"... buka <target>"    -> IntentOpen, Target=<target>
//	anything else          -> IntentUnknown
func Parse(msg string) Command {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, timeKeyword):
		return Command{Intent: IntentTime, Raw: msg}
	case strings.Contains(lower, openKeyword):
		_, after, _ := strings.Cut(lower, openKeyword)
		return Command{Intent: IntentOpen, Target: strings.TrimSpace(after), Raw: msg}
	default:
		return Command{Intent: IntentUnknown, Raw: msg}
	}
}

// Wants reports whether the open target mentions word.
func (c Command) Wants(word string) bool {
	return c.Intent == IntentOpen && strings.Contains(c.Target, word)
}
