package reminders

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/sendgrid"
)

// Notifier delivers one reminder. A returned error leaves the row unsent.
type Notifier interface {
	Notify(ctx context.Context, p domain.Patient) error
}

type NotifierFunc func(ctx context.Context, p domain.Patient) error

func (f NotifierFunc) Notify(ctx context.Context, p domain.Patient) error { return f(ctx, p) }

// ConsoleNotifier prints the rendered email instead of sending it.
type ConsoleNotifier struct {
	mu       sync.Mutex
	w        io.Writer
	fromName string
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w, fromName: DefaultFromName}
}

func (n *ConsoleNotifier) Notify(_ context.Context, p domain.Patient) error {
	e := RenderEmail(p)
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "\n%s\n[FOLLOW-UP EMAIL]\n%s\n\nTo: %s\nFrom: %s\nSubject: %s\n\n%s\n%s\n",
		rule, rule, e.To, n.fromName, e.Subject, e.Body, rule)
	return err
}

type SendGridNotifier struct {
	client sendgrid.Client
}

func NewSendGridNotifier(client sendgrid.Client) *SendGridNotifier {
	return &SendGridNotifier{client: client}
}

func (n *SendGridNotifier) Notify(ctx context.Context, p domain.Patient) error {
	e := RenderEmail(p)
	_, err := n.client.Send(ctx, sendgrid.Message{
		To:         []sendgrid.Address{{Email: e.To}},
		Subject:    e.Subject,
		Text:       e.Body,
		Categories: []string{"follow-up-reminder"},
		CustomArgs: map[string]string{"patient_id": p.ID},
	})
	if err != nil {
		return fmt.Errorf("send reminder %s: %w", p.ID, err)
	}
	return nil
}
