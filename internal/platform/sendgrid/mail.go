package sendgrid

import (
	"errors"
	"strings"
)

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Message is one email to one or more recipients. An empty From uses the
// configured sender.
type Message struct {
	From       Address
	ReplyTo    *Address
	To         []Address
	Subject    string
	Text       string
	HTML       string
	Categories []string
	CustomArgs map[string]string
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             Address           `json:"from"`
	ReplyTo          *Address          `json:"reply_to,omitempty"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
	Categories       []string          `json:"categories,omitempty"`
	MailSettings     *mailSettings     `json:"mail_settings,omitempty"`
}

type personalization struct {
	To         []Address         `json:"to"`
	CustomArgs map[string]string `json:"custom_args,omitempty"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailSettings struct {
	SandboxMode toggle `json:"sandbox_mode"`
}

type toggle struct {
	Enable bool `json:"enable"`
}

func (c *client) buildRequest(msg Message) (mailSendRequest, error) {
	from := Address{Email: strings.TrimSpace(msg.From.Email), Name: strings.TrimSpace(msg.From.Name)}
	if from.Email == "" {
		from = Address{Email: strings.TrimSpace(c.cfg.FromEmail), Name: strings.TrimSpace(c.cfg.FromName)}
	}
	if from.Email == "" {
		return mailSendRequest{}, errors.New("sendgrid: sender required (set SENDGRID_FROM_EMAIL)")
	}

	var to []Address
	for _, a := range msg.To {
		if a.Email = strings.TrimSpace(a.Email); a.Email != "" {
			to = append(to, a)
		}
	}
	if len(to) == 0 {
		return mailSendRequest{}, errors.New("sendgrid: at least one recipient required")
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		return mailSendRequest{}, errors.New("sendgrid: subject required")
	}

	// SendGrid requires text/plain before text/html.
	var content []mailContent
	if s := strings.TrimSpace(msg.Text); s != "" {
		content = append(content, mailContent{Type: "text/plain", Value: s})
	}
	if s := strings.TrimSpace(msg.HTML); s != "" {
		content = append(content, mailContent{Type: "text/html", Value: s})
	}
	if len(content) == 0 {
		return mailSendRequest{}, errors.New("sendgrid: text or html body required")
	}

	req := mailSendRequest{
		Personalizations: []personalization{{To: to, CustomArgs: msg.CustomArgs}},
		From:             from,
		ReplyTo:          msg.ReplyTo,
		Subject:          subject,
		Content:          content,
		Categories:       msg.Categories,
	}
	if c.cfg.Sandbox {
		req.MailSettings = &mailSettings{SandboxMode: toggle{Enable: true}}
	}
	return req, nil
}
