package mantra

import (
	"errors"
	"strings"
)

var ErrValidation = errors.New("invalid request")

type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// GenerationRequest is the form input. Name is display-only and never classified.
type GenerationRequest struct {
	Name   string `json:"name"`
	Lesson string `json:"lesson"`
	Fear   string `json:"fear"`
}

func (r GenerationRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Lesson) == "" {
		missing = append(missing, "lesson")
	}
	if strings.TrimSpace(r.Fear) == "" {
		missing = append(missing, "fear")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Lesson and fear are required fields"}
	}
	return nil
}

type GenerationResult struct {
	ProTip string `json:"proTip"`
	Mantra string `json:"mantra"`
}

// Partial is what the remote stage produced; an empty field is a gap.
type Partial struct {
	ProTip string
	Mantra string
}

// Path names how a result was produced. It is logged, never returned to callers.
type Path string

const (
	PathRemote   Path = "remote"
	PathPartial  Path = "partial"
	PathFallback Path = "fallback"
)

func (p Partial) Path() Path {
	switch {
	case p.ProTip != "" && p.Mantra != "":
		return PathRemote
	case p.ProTip != "" || p.Mantra != "":
		return PathPartial
	default:
		return PathFallback
	}
}
