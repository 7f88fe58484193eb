package model

import (
	"fmt"
	"log/slog"
	"strings"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CueError provides more user friendly validation errors on top of
// those generated by cuelang itself
type CueError struct {
	cuerr  error
	config cue.Value // content of --config file
	schema cue.Value // loaded cue schema
}

// Error implements error interface, returns the string content of underlying
// cue error
func (e CueError) Error() string {
	return e.cuerr.Error()
}

// Unwrap allows one to get the original error via errors.As
func (e CueError) Unwrap() error {
	return e.cuerr
}

// CueErrorPosition points to the offending place of a config file.
type CueErrorPosition struct {
	Filename string
	Line     int
	Column   int
}

func (p CueErrorPosition) String() string {
	if p.Filename == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// CueErrorDetail is a single validation problem.
type CueErrorDetail struct {
	Path    string // dotted path without the schema definition, e.g. service.log
	Message string
	Pos     CueErrorPosition
	Raw     string // original cue message
}

func (d CueErrorDetail) Attr(key string) slog.Attr {
	return slog.Group(key,
		slog.String("path", d.Path),
		slog.String("message", d.Message),
		slog.String("pos", d.Pos.String()),
	)
}

// Details provide human-friendlier error messages
func (e CueError) Details() []CueErrorDetail {
	errs := cueerrors.Errors(e.cuerr)
	ret := make([]CueErrorDetail, 0, len(errs))
	for _, ce := range errs {
		format, args := ce.Msg()
		ret = append(ret, CueErrorDetail{
			Path:    cuePath(ce.Path()),
			Message: fmt.Sprintf(format, args...),
			Pos:     cuePosition(ce),
			Raw:     ce.Error(),
		})
	}
	return ret
}

// cuePath drops the leading #Definition selectors
func cuePath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

// cuePosition prefers the position inside of the user's yaml over
// the schema one
func cuePosition(ce cueerrors.Error) CueErrorPosition {
	positions := append([]token.Pos{ce.Position()}, ce.InputPositions()...)
	var fallback CueErrorPosition
	for _, pos := range positions {
		if !pos.IsValid() {
			continue
		}
		p := CueErrorPosition{
			Filename: pos.Filename(),
			Line:     pos.Line(),
			Column:   pos.Column(),
		}
		if p.Filename == "config.yaml" {
			return p
		}
		if fallback.Filename == "" {
			fallback = p
		}
	}
	return fallback
}
