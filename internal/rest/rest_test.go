package rest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDTO struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("should accept a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","amount":10}`))
		w := httptest.NewRecorder()
		var dto sampleDTO

		ok := DecodeAndValidate(w, req, &dto)

		assert.True(t, ok)
		assert.Equal(t, "x", dto.Name)
	})

	t.Run("should report failing fields", func(t *testing.T) {
		// given
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":-1}`))
		w := httptest.NewRecorder()
		var dto sampleDTO

		// when
		ok := DecodeAndValidate(w, req, &dto)

		// then
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "required", response.Fields["Name"])
		assert.Equal(t, "gte", response.Fields["Amount"])
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		ok := DecodeAndValidate(w, req, &sampleDTO{})

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReadUpload(t *testing.T) {
	// given
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "empenhos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("numero\n1"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// when
	name, data, err := ReadUpload(req, "file", 1<<20)

	// then
	require.NoError(t, err)
	assert.Equal(t, "empenhos.csv", name)
	assert.Equal(t, "numero\n1", string(data))
}
