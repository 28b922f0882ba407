// Package domain contains core domain types for the proposal application.
package domain

import (
	"errors"
	"strings"
	"time"
)

// TimestampLayout is the fixed format of Response.CreatedAt (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// Choice is one of the two answers a visitor can give.
type Choice string

const (
	ChoiceYes  Choice = "yes"
	ChoiceTime Choice = "time"
)

// ErrInvalidChoice is returned when a submitted choice is outside the fixed set.
var ErrInvalidChoice = errors.New("invalid choice")

// NormalizeChoice trims and lowercases raw form input and validates it.
func NormalizeChoice(raw string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", ErrInvalidChoice
	}
	return c, nil
}

// Valid reports whether c is one of the accepted answers.
func (c Choice) Valid() bool {
	return c == ChoiceYes || c == ChoiceTime
}

// Response is one recorded visitor answer. Records are append-only.
type Response struct {
	ID        int64  `json:"id"`
	Choice    Choice `json:"choice"`
	CreatedAt string `json:"created_at"`
	IP        string `json:"ip,omitempty"` // empty when the address was unavailable
	UserAgent string `json:"user_agent"`
}

// NewResponse builds a record stamped with now in TimestampLayout.
func NewResponse(choice Choice, now time.Time, ip, userAgent string) *Response {
	return &Response{
		Choice:    choice,
		CreatedAt: now.Format(TimestampLayout),
		IP:        ip,
		UserAgent: userAgent,
	}
}

// HasIP returns true if the client address was observed.
func (r *Response) HasIP() bool {
	return r.IP != ""
}
