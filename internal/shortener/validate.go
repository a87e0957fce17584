package shortener

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrInvalidURL is returned when a long URL fails validation.
var ErrInvalidURL = errors.New("invalid url")

// ValidateURL checks that a long URL is well formed before it reaches the
// shortening core: it must parse, use the http or https scheme, and name a
// host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}
