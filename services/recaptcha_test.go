package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *RecaptchaVerifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	rv := NewRecaptchaVerifier(RecaptchaConfig{
		Secret:    "test-secret",
		VerifyURL: server.URL,
		MinScore:  0.5,
	})
	rv.httpClient = server.Client()
	return rv
}

func TestRecaptchaVerifier_Verify(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		response    map[string]interface{}
		wantSuccess bool
		wantScore   float64
		wantErr     error
	}{
		{
			name:        "score above threshold",
			status:      http.StatusOK,
			response:    map[string]interface{}{"success": true, "score": 0.9, "action": "quote"},
			wantSuccess: true,
			wantScore:   0.9,
		},
		{
			name:        "score exactly at threshold",
			status:      http.StatusOK,
			response:    map[string]interface{}{"success": true, "score": 0.5, "action": "quote"},
			wantSuccess: true,
			wantScore:   0.5,
		},
		{
			name:        "score below threshold",
			status:      http.StatusOK,
			response:    map[string]interface{}{"success": true, "score": 0.3, "action": "quote"},
			wantSuccess: false,
			wantScore:   0.3,
		},
		{
			name:     "upstream rejects token",
			status:   http.StatusOK,
			response: map[string]interface{}{"success": false, "error-codes": []string{"invalid-input-response"}},
			wantErr:  ErrVerificationFailed,
		},
		{
			name:    "upstream error status",
			status:  http.StatusServiceUnavailable,
			wantErr: ErrRecaptchaUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "test-secret", r.PostForm.Get("secret"))
				assert.Equal(t, "client-token", r.PostForm.Get("response"))
				assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))

				w.WriteHeader(tt.status)
				if tt.response != nil {
					json.NewEncoder(w).Encode(tt.response)
				}
			})

			result, err := rv.Verify(context.Background(), "client-token", "203.0.113.9")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, "quote", result.Action)
		})
	}
}

func TestRecaptchaVerifier_ThresholdProperty(t *testing.T) {
	for _, score := range []float64{0, 0.1, 0.2, 0.3, 0.4, 0.49, 0.5, 0.51, 0.7, 0.9, 1} {
		score := score
		rv := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "score": score, "action": "submit"})
		})

		result, err := rv.Verify(context.Background(), "tok", "")
		require.NoError(t, err)
		assert.Equal(t, score >= 0.5, result.Success, "score %v", score)
	}
}

func TestRecaptchaVerifier_MissingToken(t *testing.T) {
	rv := NewRecaptchaVerifier(RecaptchaConfig{Secret: "s", MinScore: 0.5})
	_, err := rv.Verify(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestRecaptchaVerifier_NotConfigured(t *testing.T) {
	rv := NewRecaptchaVerifier(RecaptchaConfig{MinScore: 0.5})
	assert.False(t, rv.Enabled())
	_, err := rv.Verify(context.Background(), "tok", "")
	assert.ErrorIs(t, err, ErrRecaptchaNotConfigured)
}

func TestRecaptchaVerifier_BadJSON(t *testing.T) {
	rv := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})
	_, err := rv.Verify(context.Background(), "tok", "")
	assert.ErrorIs(t, err, ErrRecaptchaUnavailable)
}
