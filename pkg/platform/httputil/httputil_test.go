package httputil

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "capfinder/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("maps domain codes to statuses", func(t *testing.T) {
		cases := map[dErrors.Code]int{
			dErrors.CodeNotFound:       http.StatusNotFound,
			dErrors.CodeInvalidInput:   http.StatusBadRequest,
			dErrors.CodeInvalidCountry: http.StatusUnprocessableEntity,
			dErrors.CodeTimeout:        http.StatusGatewayTimeout,
			dErrors.CodePersistence:    http.StatusInternalServerError,
		}
		for code, status := range cases {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(code, "boom"))
			assert.Equal(t, status, rec.Code, "code %s", code)
			assert.Contains(t, rec.Body.String(), string(code))
		}
	})

	t.Run("unexpected errors become internal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("plain failure"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal_error")
	})
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	type payload struct {
		Country string `json:"country"`
	}

	t.Run("decodes valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/capital", strings.NewReader(`{"country":"France"}`))
		rec := httptest.NewRecorder()

		got, ok := DecodeJSON[payload](rec, req, logger)
		require.True(t, ok)
		assert.Equal(t, "France", got.Country)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/capital", strings.NewReader(`{"country":`))
		rec := httptest.NewRecorder()

		got, ok := DecodeJSON[payload](rec, req, logger)
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
