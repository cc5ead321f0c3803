package contact

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Status is the outcome of a submission.
type Status string

const (
	StatusSuccess         Status = "success"
	StatusValidationError Status = "validation_error"
	StatusSendError       Status = "send_error"
	StatusRejected        Status = "rejected"
)

// Config addresses outgoing mail and tunes the guard.
type Config struct {
	Recipient string
	From      string
	Guard     GuardConfig
}

// Service validates, screens and relays contact submissions.
type Service struct {
	cfg     Config
	guard   *Guard
	mailer  Mailer
	logger  interfaces.Logger
	observe func(outcome string)
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers a callback receiving every submission outcome.
func WithObserver(observer func(outcome string)) Option {
	return func(s *Service) {
		s.observe = observer
	}
}

// WithClock overrides the time source used by the guard.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a Service. A nil mailer logs messages instead.
func NewService(cfg Config, mailer Mailer, opts ...Option) *Service {
	svc := &Service{
		cfg:    cfg,
		guard:  NewGuard(cfg.Guard),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if mailer == nil {
		mailer = NewLogMailer(svc.logger)
	}
	svc.mailer = mailer
	return svc
}

// Submit handles one submission from clientKey, typically the remote IP.
// The returned error explains any status other than StatusSuccess.
func (s *Service) Submit(ctx context.Context, clientKey string, sub Submission) (Status, error) {
	sub = sub.Normalize()
	logger := logging.WithFields(logging.ForRequest(ctx, s.logger), map[string]any{"client": clientKey})

	if err := s.guard.Check(clientKey, sub, s.now()); err != nil {
		logger.Warn("contact.submission.rejected", "error", err)
		return s.finish(StatusRejected), err
	}
	if err := sub.Validate(); err != nil {
		logger.Debug("contact.submission.invalid", "error", err)
		return s.finish(StatusValidationError), err
	}

	msg := BuildMessage(sub, s.cfg.From, strings.TrimSpace(s.cfg.Recipient))
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error("contact.submission.send_failed", "error", err)
		return s.finish(StatusSendError), sendFailed(err)
	}
	logger.Info("contact.submission.sent", "reply_to", msg.ReplyTo)
	return s.finish(StatusSuccess), nil
}

func (s *Service) finish(status Status) Status {
	if s.observe != nil {
		s.observe(string(status))
	}
	return status
}
