package domain

import "errors"

var (
	// ErrContentPolicy means the provider refused the prompt. Never retried.
	ErrContentPolicy = errors.New("request rejected by content policy")
	// ErrQuotaExceeded means the provider account is out of quota. Never retried.
	ErrQuotaExceeded = errors.New("generation quota exceeded")
	// ErrNotConfigured means no provider credentials are set.
	ErrNotConfigured = errors.New("generation provider not configured")
	// ErrEmptyResponse means the provider answered without usable output.
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrNoLogos means no logo slot produced an image.
	ErrNoLogos = errors.New("no logos could be generated")
)

// Permanent reports whether err must not be retried.
func Permanent(err error) bool {
	return errors.Is(err, ErrContentPolicy) || errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrNotConfigured)
}
