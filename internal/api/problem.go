package api

import (
	"net/http"
	"sort"

	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"

	"customer-service/internal/apperrors"
)

const problemContentType = "application/problem+json"

// ProblemDetail is an RFC 7807 error body.
type ProblemDetail struct {
	Type     string `json:"type" example:"about:blank"`
	Title    string `json:"title" example:"Bad Request"`
	Status   int    `json:"status" example:"400"`
	Detail   string `json:"detail,omitempty" example:"the name must start with an uppercase letter"`
	Instance string `json:"instance,omitempty" example:"/customers/alice"`
}

func NewProblemDetail(status int, detail, instance string) ProblemDetail {
	return ProblemDetail{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle turns errors returned by h into responses. Invalid request state
// becomes a 400 problem detail; anything else is a bare 500.
func (a *API) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		switch apperrors.KindOf(err) {
		case apperrors.KindInvalidState:
			a.invalidState(w, r, err)
		default:
			a.fault(w, r, err)
		}
	}
}

func (a *API) invalidState(w http.ResponseWriter, r *http.Request, err error) {
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	a.log.Info("invalid request state",
		"request_id", RequestID(r.Context()),
		"path", r.URL.Path,
		"detail", err.Error(),
		"headers", names,
	)

	pd := NewProblemDetail(http.StatusBadRequest, err.Error(), r.URL.Path)
	body, mErr := json.Marshal(pd)
	if mErr != nil {
		a.fault(w, r, mErr)
		return
	}
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(pd.Status)
	_, _ = w.Write(body)
}

func (a *API) fault(w http.ResponseWriter, r *http.Request, err error) {
	id := RequestID(r.Context())
	a.log.Error("request failed", "request_id", id, "method", r.Method, "path", r.URL.Path, "err", err)

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		scope.SetTag("request_id", id)
	})
	hub.CaptureException(err)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status line is gone at this point, a failed write can only be dropped
	_, _ = w.Write(body)
	return nil
}
