package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(Message{Message: msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case ResetToken:
		o.printResetToken(v)
	case Message:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	Identity    string    `json:"identity"`
	DisplayName string    `json:"display_name"`
	Premium     bool      `json:"premium"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account   `json:"account"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ResetToken response type
type ResetToken struct {
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Message response type
type Message struct {
	Message string `json:"message"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAccount(a Account) {
	premium := "no"
	if a.Premium {
		premium = "yes"
	}
	_, _ = fmt.Fprintf(o.w, "Account: %s (%s)\n", a.DisplayName, a.Identity)
	_, _ = fmt.Fprintf(o.w, "Premium: %s\n", premium)
}

// printAuthResult leaves the token out; it is saved to the token file instead
func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	_, _ = fmt.Fprintf(o.w, "Session expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printResetToken(r ResetToken) {
	_, _ = fmt.Fprintf(o.w, "Reset link valid for %s until %s\n", r.Identity, r.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
