package middleware

import (
	"fmt"
	"net/http"

	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
)

// ErrorHandler writes err as the response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// RateLimit limits requests per client IP. formatted uses the limiter syntax, e.g. "20-M".
func RateLimit(formatted string, onError ErrorHandler) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	mw := limiterhttp.NewMiddleware(instance,
		limiterhttp.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			onError(w, r, apperr.TooManyRequestsErr)
		}),
		limiterhttp.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			onError(w, r, fmt.Errorf("rate limiter: %w", err))
		}),
	)

	return mw.Handler, nil
}
