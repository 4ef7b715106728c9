package toyyibpay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTransport(serverURL string) *transport {
	cfg := &Config{APIKey: "test-key", ProdBaseURL: serverURL}
	return newTransport(cfg, nil, zerolog.Nop(), nil)
}

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]interface{}
	}{
		{
			name: "object passes through",
			body: `{"BillCode": "abc123"}`,
			want: map[string]interface{}{"BillCode": "abc123"},
		},
		{
			name: "array is wrapped",
			body: `[{"billName": "x"}]`,
			want: map[string]interface{}{
				"data": []interface{}{map[string]interface{}{"billName": "x"}},
			},
		},
		{
			name: "plain text is wrapped",
			body: `[KEY-DID-NOT-EXIST]`,
			want: map[string]interface{}{"response": "[KEY-DID-NOT-EXIST]"},
		},
		{
			name: "bare string is wrapped",
			body: `"false"`,
			want: map[string]interface{}{"response": `"false"`},
		},
		{
			name: "empty body is wrapped",
			body: "",
			want: map[string]interface{}{"response": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeBody([]byte(tt.body)))
		})
	}
}

func TestPostInjectsCredentialsAndHeaders(t *testing.T) {
	var gotKey, gotContentType, gotUA, gotExtra string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotKey = r.PostForm.Get("userSecretKey")
		gotContentType = r.Header.Get("Content-Type")
		gotUA = r.Header.Get("User-Agent")
		gotExtra = r.Header.Get("X-Custom")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	cfg := &Config{
		APIKey:            "sk_live_abc",
		ProdBaseURL:       server.URL,
		AdditionalHeaders: map[string]string{"X-Custom": "yes"},
	}
	tr := newTransport(cfg, nil, zerolog.Nop(), nil)

	resp, err := tr.post(context.Background(), endpointCreateBill, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"ok": true}, resp)
	assert.Equal(t, "sk_live_abc", gotKey)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, userAgent, gotUA)
	assert.Equal(t, "yes", gotExtra)
}

func TestPostErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		check      func(error) bool
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "401 without message",
			status:     http.StatusUnauthorized,
			body:       `{}`,
			check:      IsAuthenticationError,
			wantMsg:    "Invalid API key",
			wantStatus: 401,
		},
		{
			name:       "401 with message",
			status:     http.StatusUnauthorized,
			body:       `{"message": "key revoked"}`,
			check:      IsAuthenticationError,
			wantMsg:    "key revoked",
			wantStatus: 401,
		},
		{
			name:       "429",
			status:     http.StatusTooManyRequests,
			body:       `{}`,
			check:      IsRateLimitError,
			wantMsg:    "Rate limit exceeded",
			wantStatus: 429,
		},
		{
			name:       "503",
			status:     http.StatusServiceUnavailable,
			body:       `{"message": "maintenance"}`,
			check:      IsAPIError,
			wantMsg:    "Server error: maintenance",
			wantStatus: 503,
		},
		{
			name:       "404",
			status:     http.StatusNotFound,
			body:       `{}`,
			check:      IsAPIError,
			wantMsg:    "Not Found",
			wantStatus: 404,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := testTransport(server.URL).post(context.Background(), endpointCreateBill, nil)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error type: %v", err)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
		})
	}
}

func TestPostTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := &Config{APIKey: "k", ProdBaseURL: server.URL, Timeout: 20 * time.Millisecond}
	tr := newTransport(cfg, nil, zerolog.Nop(), nil)

	_, err := tr.post(context.Background(), endpointCreateBill, nil)
	require.Error(t, err)
	assert.True(t, IsTimeoutError(err), "want timeout error, got %v", err)
	assert.True(t, IsRetryable(err))
}

func TestPostNetworkError(t *testing.T) {
	cfg := &Config{APIKey: "k", ProdBaseURL: "http://127.0.0.1:1"}
	tr := newTransport(cfg, nil, zerolog.Nop(), nil)

	_, err := tr.post(context.Background(), endpointCreateBill, nil)
	require.Error(t, err)
	assert.True(t, IsNetworkError(err), "want network error, got %v", err)
}
