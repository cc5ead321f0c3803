package contact

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalid     = "CONTACT_INVALID"
	textCodeHoneypot    = "CONTACT_HONEYPOT"
	textCodeTooFast     = "CONTACT_TOO_FAST"
	textCodeRateLimited = "CONTACT_RATE_LIMITED"
	textCodeSendFailed  = "CONTACT_SEND_FAILED"
)

func rejected(message, code string) error {
	return goerrors.New("contact: "+message, goerrors.CategoryBadInput).
		WithTextCode(code)
}

func rateLimited(client string) error {
	return goerrors.New("contact: too many submissions", goerrors.CategoryRateLimit).
		WithTextCode(textCodeRateLimited).
		WithMetadata(map[string]any{"client": client})
}

func sendFailed(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "contact: message could not be sent").
		WithTextCode(textCodeSendFailed)
}
