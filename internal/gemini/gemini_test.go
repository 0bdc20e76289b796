// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdyun/sermon-engine/internal/httputil"
	"github.com/jdyun/sermon-engine/pkg/types"
)

func init() {
	// Avoid real backoff sleeps in retry tests.
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

// testClient points the package at a test server. Every test that talks
// to a server sets apiBase through here, so no restore is needed.
func testClient(serverURL string) *Client {
	apiBase = serverURL

	return New(types.AIConfig{
		Model:           "test-model",
		APIKey:          "test-key",
		MaxRetries:      3,
		Temperature:     0.7,
		MaxOutputTokens: 1024,
		Timeout:         5 * time.Second,
	})
}

func textResponse(text string) generateResponse {
	return generateResponse{
		Candidates: []candidate{
			{Content: content{Role: "model", Parts: []part{{Text: text}}}},
		},
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotPath string
	var gotReq generateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(textResponse("생성된 본문입니다."))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	text, err := c.Generate(context.Background(), "시스템 지시문", "사용자 프롬프트")
	require.NoError(t, err)

	assert.Equal(t, "생성된 본문입니다.", text)
	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	require.NotNil(t, gotReq.SystemInstruction)
	assert.Equal(t, "시스템 지시문", gotReq.SystemInstruction.Parts[0].Text)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "사용자 프롬프트", gotReq.Contents[0].Parts[0].Text)
	assert.Equal(t, 1024, gotReq.GenerationConfig.MaxOutputTokens)
}

func TestGenerateJoinsParts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := generateResponse{Candidates: []candidate{{
			Content: content{Parts: []part{{Text: "앞부분 "}, {Text: "뒷부분"}}},
		}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	text, err := testClient(ts.URL).Generate(context.Background(), "", "프롬프트")
	require.NoError(t, err)
	assert.Equal(t, "앞부분 뒷부분", text)
}

func TestGenerateRetriesTransientThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(textResponse("ok"))
	}))
	defer ts.Close()

	text, err := testClient(ts.URL).Generate(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGeneratePermanentFailureNoRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "API key not valid"}}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Generate(context.Background(), "s", "u")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, apiErr.Permanent())
	assert.Contains(t, apiErr.Error(), "API key not valid")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateExhaustedRetriesIsTransientError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Generate(context.Background(), "s", "u")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.False(t, apiErr.Permanent())
}

func TestGenerateEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGenerateEmptyText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(textResponse("   \n"))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	c := New(types.AIConfig{Model: "m", APIKey: "k"})
	_, err := c.Generate(context.Background(), "system", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt is empty")
}

func TestAPIErrorPermanence(t *testing.T) {
	tests := []struct {
		code      int
		permanent bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusUnauthorized, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusServiceUnavailable, false},
	}
	for _, tt := range tests {
		e := &APIError{StatusCode: tt.code}
		if e.Permanent() != tt.permanent {
			t.Errorf("Permanent() for %d = %v, want %v", tt.code, e.Permanent(), tt.permanent)
		}
	}
}
