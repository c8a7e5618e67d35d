// Package mailer sends transactional email: lead and contact notifications
// to the brokerage inbox.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"html/template"

	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
)

var ErrNoRecipient = errors.New("mailer: no recipient")

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. Used
// when no provider key is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	logger.Infof("mailer: (not sent) to=%s subject=%q bytes=%d", msg.To, msg.Subject, len(msg.HTML))
	return nil
}

// Field is one labelled row of a notification.
type Field struct {
	Label string
	Value string
}

// Notification is rendered into the HTML body of an inbox alert.
type Notification struct {
	Heading string
	Fields  []Field
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>{{.Heading}}</h2>
    <table cellpadding="6" style="border-collapse: collapse;">
      {{- range .Fields}}
      {{- if .Value}}
      <tr><td><strong>{{.Label}}</strong></td><td>{{.Value}}</td></tr>
      {{- end}}
      {{- end}}
    </table>
  </body>
</html>
`))

// Render produces the escaped HTML body for n.
func (n Notification) Render() (string, error) {
	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
