// Package parser extracts the severity level and the request handler from a
// raw log line.
package parser

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/CZERTAINLY/log-lens/internal/model"
)

// DefaultHandlerPattern matches the first path token following a whitespace
// or an opening bracket.
const DefaultHandlerPattern = `(?:^|[\s\[])(/[^\s\]]*)`

// HandlerGroup is the name of a capture group of a custom handler pattern
// holding the handler.
const HandlerGroup = "handler"

var levelRe = regexp.MustCompile(`\b(DEBUG|INFO|WARNING|ERROR|CRITICAL)\b`)

var defaultParser = mustNew(DefaultHandlerPattern)

// Parser is safe for concurrent use.
type Parser struct {
	handler *regexp.Regexp
	group   int
}

// Default returns the parser for the built-in handler pattern.
func Default() *Parser {
	return defaultParser
}

// New returns a parser with a custom handler regular expression. The
// handler is the group named "handler", else the first capture group, else
// the whole match.
func New(pattern string) (*Parser, error) {
	if pattern == "" {
		return nil, errors.New("empty handler pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid handler pattern: %w", err)
	}
	group := 0
	if idx := re.SubexpIndex(HandlerGroup); idx > 0 {
		group = idx
	} else if re.NumSubexp() > 0 {
		group = 1
	}
	return &Parser{handler: re, group: group}, nil
}

func mustNew(pattern string) *Parser {
	p, err := New(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse returns false if the line has no severity level. A line with a level
// but no handler returns an empty Line.Handler.
func (p *Parser) Parse(line string) (model.Line, bool) {
	loc := levelRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return model.Line{}, false
	}
	level, ok := model.ParseLevel(line[loc[2]:loc[3]])
	if !ok {
		return model.Line{}, false
	}
	return model.Line{
		Level:   level,
		Handler: p.handlerOf(line[loc[1]:]),
	}, true
}

func (p *Parser) handlerOf(rest string) string {
	m := p.handler.FindStringSubmatchIndex(rest)
	if m == nil {
		return ""
	}
	start, end := m[2*p.group], m[2*p.group+1]
	if start < 0 {
		return ""
	}
	return rest[start:end]
}

// Pattern returns the source of the handler regular expression.
func (p *Parser) Pattern() string {
	return p.handler.String()
}
