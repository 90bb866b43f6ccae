package mocks

import (
	"context"
	"sync"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/services/delivery"
)

// SentLink records one SendResetLink call
type SentLink struct {
	Recipient model.Identity
	Link      string
}

// MockDeliverer records reset links instead of sending them
type MockDeliverer struct {
	mu   sync.Mutex
	sent []SentLink

	// Err, when set, is returned by every SendResetLink call
	Err error
}

// Ensure MockDeliverer implements Deliverer
var _ delivery.Deliverer = (*MockDeliverer)(nil)

// NewMockDeliverer creates a new MockDeliverer
func NewMockDeliverer() *MockDeliverer {
	return &MockDeliverer{}
}

func (d *MockDeliverer) SendResetLink(_ context.Context, recipient model.Identity, link string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.sent = append(d.sent, SentLink{Recipient: recipient, Link: link})
	return nil
}

// Sent returns a copy of every link delivered so far
func (d *MockDeliverer) Sent() []SentLink {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SentLink, len(d.sent))
	copy(out, d.sent)
	return out
}

// Last returns the most recent delivered link, if any
func (d *MockDeliverer) Last() (SentLink, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sent) == 0 {
		return SentLink{}, false
	}
	return d.sent[len(d.sent)-1], true
}
