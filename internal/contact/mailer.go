package contact

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/google/uuid"
)

// Message is a plain text mail ready to send.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// BuildMessage formats an accepted submission for the site owner. Replies go
// straight to the sender.
func BuildMessage(sub Submission, from, recipient string) Message {
	name := headerSafe(sub.Name)
	return Message{
		From:    from,
		To:      []string{recipient},
		ReplyTo: headerSafe(sub.Email),
		Subject: "New website contact from " + name,
		Body: "Name: " + sub.Name + "\n" +
			"Email: " + sub.Email + "\n\n" +
			"Message:\n" +
			sub.Message,
	}
}

// SMTPConfig addresses an SMTP relay. Username may be empty for relays that
// accept unauthenticated mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through an SMTP relay using STARTTLS when offered.
type SMTPMailer struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

// NewSMTPMailer builds a mailer for cfg. Port defaults to 587.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// Send delivers msg. The context is only checked before dialing since
// net/smtp has no cancellation support.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("smtp mailer: no recipients")
	}
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return fmt.Errorf("smtp mailer: invalid from address %q: %w", msg.From, err)
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, from.Address, msg.To, m.encode(msg)); err != nil {
		return fmt.Errorf("smtp mailer: send via %s: %w", addr, err)
	}
	return nil
}

func (m *SMTPMailer) encode(msg Message) []byte {
	var b bytes.Buffer
	header := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}
	header("From", msg.From)
	header("To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		header("Reply-To", msg.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+m.cfg.Host+">")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="utf-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}

// LogMailer writes messages to a logger instead of sending them. It is used
// when no SMTP relay is configured.
type LogMailer struct {
	logger interfaces.Logger
}

// NewLogMailer returns a LogMailer; a nil logger discards messages.
func NewLogMailer(logger interfaces.Logger) *LogMailer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("contact.mail.logged",
		"to", strings.Join(msg.To, ","),
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

func headerSafe(value string) string {
	return strings.Join(strings.FieldsFunc(value, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}
