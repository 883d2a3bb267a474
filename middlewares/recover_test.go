package middlewares_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orbithammer/parasocial/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("passes healthy requests through", func(t *testing.T) {
		t.Parallel()

		handler := middlewares.Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("converts a panic into a 500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := middlewares.Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("timeline exploded")
		}))

		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
		})

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, buf.String(), "timeline exploded")
		require.Contains(t, buf.String(), "/feed")
		require.Contains(t, buf.String(), "stack")
	})

	t.Run("can omit the stack trace", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := middlewares.Recover(log, middlewares.WithRecoverDisablePrintStack())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("quiet failure")
			}),
		)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, buf.String(), "quiet failure")
		require.NotContains(t, buf.String(), `"stack"`)
	})

	t.Run("re-panics on http.ErrAbortHandler", func(t *testing.T) {
		t.Parallel()

		handler := middlewares.Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		require.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
