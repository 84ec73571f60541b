// Package mailer sends the internal lead notification email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/pestpro/pestpro-api/config"
	apperrors "github.com/pestpro/pestpro-api/pkg/errors"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const (
	serviceName = "smtp"
	sendTimeout = 20 * time.Second
)

// Notification is one accepted lead as the sales inbox sees it
type Notification struct {
	SubmissionID    string
	Form            string
	Name            string
	Phone           string
	Email           string
	Address         string
	City            string
	ServiceInterest string
	PropertyType    string
	PropertySize    string
	Message         string
}

var bodyTemplate = template.Must(template.New("lead").Parse(`New lead from the {{.Form}} form

Name:     {{or .Name "-"}}
Phone:    {{.Phone}}
Email:    {{or .Email "-"}}
Address:  {{or .Address "-"}}
City:     {{.City}}
Service:  {{.ServiceInterest}}
{{- if .PropertyType}}
Property: {{.PropertyType}}{{if .PropertySize}} ({{.PropertySize}}){{end}}
{{- end}}

{{if .Message}}Message:
{{.Message}}
{{end}}
Submission: {{.SubmissionID}}
`))

// deliverer is the part of *mail.Client the sender uses
type deliverer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender delivers lead notifications. A Sender built without SMTP
// credentials is valid but reports Configured() == false and sends nothing.
type Sender struct {
	from   string
	to     string
	client deliverer
}

// NewSender creates a sender from the email configuration
func NewSender(cfg config.EmailConfig) (*Sender, error) {
	s := &Sender{from: cfg.From, to: cfg.To}
	if cfg.User == "" || cfg.Pass == "" {
		return s, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Pass),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	s.client = client
	return s, nil
}

// Configured reports whether SMTP credentials were supplied
func (s *Sender) Configured() bool {
	return s != nil && s.client != nil
}

// SendLeadNotification emails n to the sales inbox, with Reply-To set to the
// customer when they left an address.
func (s *Sender) SendLeadNotification(ctx context.Context, n Notification) error {
	if !s.Configured() {
		return apperrors.ErrNotConfigured
	}

	msg, err := s.buildMessage(n)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.client.DialAndSendWithContext(ctx, msg)
	duration := metrics.MeasureDuration(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordClientCall(serviceName, "send_lead_notification", status, duration)
	logger.LogAPICall(serviceName, "send_lead_notification", status, duration,
		zap.String("submission_id", n.SubmissionID), zap.Error(err))

	if err != nil {
		return fmt.Errorf("failed to send lead notification: %w", err)
	}
	return nil
}

func (s *Sender) buildMessage(n Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(s.to); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	if n.Email != "" {
		if err := msg.ReplyTo(n.Email); err != nil {
			logger.Debug("Skipping unusable reply-to address", zap.Error(err))
		}
	}
	msg.Subject(subject(n))
	msg.SetDate()
	msg.SetMessageID()

	if err := msg.SetBodyTextTemplate(bodyTemplate, n); err != nil {
		return nil, fmt.Errorf("failed to render lead notification: %w", err)
	}
	return msg, nil
}

func subject(n Notification) string {
	name := strings.TrimSpace(n.Name)
	if name == "" {
		name = "Website visitor"
	}
	return fmt.Sprintf("New %s lead: %s (%s)", n.Form, name, n.Phone)
}
