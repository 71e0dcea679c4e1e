// Package notify delivers desktop notifications, preferring the
// multiplexer's own notification command and falling back to the OS
// scripting bridge.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notification is a single popup.
type Notification struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body,omitempty"`
}

// Sender shows a notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Deliverer tries Primary and, if it is missing or fails, Fallback.
type Deliverer struct {
	Primary  Sender
	Fallback Sender
	log      *logrus.Entry
}

// NewDeliverer creates a Deliverer. Either sender may be nil.
func NewDeliverer(primary, fallback Sender, log *logrus.Entry) *Deliverer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Deliverer{Primary: primary, Fallback: fallback, log: log}
}

// Deliver shows n through the first sender that accepts it. The fallback's
// outcome is only logged.
func (d *Deliverer) Deliver(ctx context.Context, n Notification) {
	if d.Primary != nil {
		err := d.Primary.Send(ctx, n)
		if err == nil {
			d.log.WithField("title", n.Title).Debug("Notification delivered")
			return
		}
		d.log.WithError(err).Debug("Primary notification failed, falling back")
	}

	if d.Fallback == nil {
		d.log.Debug("No notification sender available")
		return
	}
	if err := d.Fallback.Send(ctx, n); err != nil {
		d.log.WithError(err).Debug("Fallback notification failed")
	}
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, n Notification) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, n Notification) error {
	return f(ctx, n)
}
