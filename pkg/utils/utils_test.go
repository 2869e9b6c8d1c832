package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, RespondFieldErrors(rec, http.StatusUnprocessableEntity, "invalid form", map[string]string{"email": "bad"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Error: "invalid form", Fields: map[string]string{"email": "bad"}}, body)
}

func TestRespondErrorOmitsFields(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, RespondError(rec, http.StatusNotFound, "session not found"))
	assert.JSONEq(t, `{"error":"session not found"}`, rec.Body.String())
}

func TestSendSSEEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	SetupSSEHeaders(rec)

	require.NoError(t, SendSSEEvent(rec, rec, "snapshot", map[string]bool{"pending": true}))
	require.NoError(t, SendSSEComment(rec, rec, "keepalive"))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "event: snapshot\ndata: {\"pending\":true}\n\n: keepalive\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
