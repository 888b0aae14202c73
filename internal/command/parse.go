package command

import (
	"regexp"
	"strings"
)

var mentionPattern = regexp.MustCompile(`<@[A-Za-z0-9]+>`)

// Parser extracts mentions, arguments and flags from message text. Handlers
// never tokenize on their own; routing everything through these primitives
// keeps mention-exclusion and bot-self-exclusion consistent everywhere.
type Parser struct {
	botID   string
	mention string
}

func NewParser(botID string) *Parser {
	return &Parser{botID: botID, mention: "<@" + botID + ">"}
}

// BotMention returns the sigil-delimited token that addresses the bot.
func (p *Parser) BotMention() string { return p.mention }

// Mentions returns the user ids mentioned in the text, in order of first
// appearance, excluding the bot itself.
func (p *Parser) Mentions(text string) []string {
	var ids []string
	for _, token := range mentionPattern.FindAllString(text, -1) {
		id := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
		if id == p.botID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// StripMention removes the leading bot mention plus any ": " separator.
func (p *Parser) StripMention(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, p.mention)
	return strings.TrimLeft(text, ": \t")
}

// ArgOptions controls which tokens Args keeps.
type ArgOptions struct {
	// IncludeTerm keeps the leading command term.
	IncludeTerm bool
	// IncludeMentions keeps <@id> tokens.
	IncludeMentions bool
}

// Args splits the text into whitespace tokens after stripping the bot
// mention. The first token is the command term and is dropped unless
// requested; mention tokens are dropped unless requested.
func (p *Parser) Args(text string, opts ArgOptions) []string {
	tokens := strings.Fields(p.StripMention(text))
	if len(tokens) > 0 && !opts.IncludeTerm {
		tokens = tokens[1:]
	}
	if opts.IncludeMentions {
		return tokens
	}
	var out []string
	for _, tok := range tokens {
		if mentionPattern.MatchString(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// HasFlag reports whether any of the flag spellings appears in the text,
// case-insensitively.
func (p *Parser) HasFlag(text string, flags ...string) bool {
	lower := strings.ToLower(text)
	for _, flag := range flags {
		if strings.Contains(lower, strings.ToLower(flag)) {
			return true
		}
	}
	return false
}
