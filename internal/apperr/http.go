package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"lucy-college/common/httputil"

	"github.com/go-playground/validator/v10"
)

// Respond writes err as {"error": msg} with the status of its Kind.
// Server-side failures are logged with the underlying cause.
func Respond(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.InfoContext(r.Context(), "request rejected", "method", r.Method, "path", r.URL.Path, "kind", KindOf(err), "error", err)
	}
	httputil.RespondWithError(w, status, Message(err))
}

// FromValidation turns validator output into an Invalid error naming the failing fields.
func FromValidation(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(err, KindInvalid, "invalid request")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return Wrap(err, KindInvalid, strings.Join(msgs, "; "))
}

// BadRequest wraps a decoding failure.
func BadRequest(err error) *Error {
	return Wrap(err, KindInvalid, err.Error())
}
