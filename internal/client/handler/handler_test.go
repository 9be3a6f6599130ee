package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client"
	clientservice "github.com/EdinsonB/Portal-Certificacion-Comercios/internal/client/service"
	"github.com/EdinsonB/Portal-Certificacion-Comercios/internal/progress"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := clientservice.New(client.NewInMemoryStore(), progress.NewInMemoryStore(), logger, nil, nil)
	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateClient(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid request creates the client", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/clients", map[string]string{
			"nit":               "1234567890",
			"name":              "Comercio Uno",
			"certificationType": "pse-basico",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var record client.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, "Comercio Uno", record.Name)
		assert.Equal(t, "pse-basico", record.SchemeKey)
	})

	t.Run("duplicate nit conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/clients", map[string]string{
			"nit":               "1234567890",
			"name":              "Otro",
			"certificationType": "pse-basico",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short nit is unprocessable", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/clients", map[string]string{
			"nit":               "12345",
			"name":              "Comercio",
			"certificationType": "pse-basico",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body is unprocessable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestFindClient(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing client is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/clients/1234567890", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("existing client round trips", func(t *testing.T) {
		doJSON(t, router, http.MethodPost, "/clients", map[string]string{
			"nit":               "1234567890",
			"name":              "Comercio",
			"certificationType": "pse-avanzado",
		})

		rec := doJSON(t, router, http.MethodGet, "/clients/1234567890", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var record client.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, "Comercio", record.Name)
	})
}

func TestDeleteClient(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/clients", map[string]string{
		"nit":               "1234567890",
		"name":              "Comercio",
		"certificationType": "pse-basico",
	})

	rec := doJSON(t, router, http.MethodDelete, "/clients/1234567890", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/clients/1234567890", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Finalizing twice is fine.
	rec = doJSON(t, router, http.MethodDelete, "/clients/1234567890", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListClients(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String(), "empty list renders as an array")

	doJSON(t, router, http.MethodPost, "/clients", map[string]string{
		"nit":               "1234567890",
		"name":              "Comercio",
		"certificationType": "pse-basico",
	})

	rec = doJSON(t, router, http.MethodGet, "/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []client.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}
