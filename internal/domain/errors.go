package domain

import "errors"

// ErrInvalidRequest indicates that a generation request contains invalid data.
var ErrInvalidRequest = errors.New("invalid generation request")

// ErrEmptyPrompt indicates that a generation request carries an empty prompt.
var ErrEmptyPrompt = errors.New("empty prompt")

// ErrInvalidAssessment indicates that a service assessment violates its constraints.
var ErrInvalidAssessment = errors.New("invalid service assessment")

// ErrInvalidBreakdown indicates that a pricing breakdown violates its invariants.
var ErrInvalidBreakdown = errors.New("invalid pricing breakdown")
