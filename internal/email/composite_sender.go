package email

import (
	"context"
	"errors"
)

var errNoSenders = errors.New("no email senders configured")

// CompositeEmailSender fans a message out to every registered Sender. A
// failing sender does not stop the others.
type CompositeEmailSender struct {
	senders []Sender
}

func NewCompositeEmailSender(senders ...Sender) *CompositeEmailSender {
	cs := &CompositeEmailSender{}
	for _, s := range senders {
		cs.AddSender(s)
	}
	return cs
}

// AddSender ignores nil senders.
func (cs *CompositeEmailSender) AddSender(sender Sender) {
	if sender != nil {
		cs.senders = append(cs.senders, sender)
	}
}

func (cs *CompositeEmailSender) Len() int { return len(cs.senders) }

// Send returns the joined errors of all failing senders.
func (cs *CompositeEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if len(cs.senders) == 0 {
		return errNoSenders
	}
	errs := make([]error, 0, len(cs.senders))
	for _, sender := range cs.senders {
		errs = append(errs, sender.Send(ctx, to, subject, rawMessage))
	}
	return errors.Join(errs...)
}
