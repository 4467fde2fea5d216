package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "no trusted proxies ignores headers",
			remote:  "10.0.0.1:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "10.0.0.1:5000",
		},
		{
			name:    "trusted cidr uses x-real-ip",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.0.0.1:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "1.2.3.4",
		},
		{
			name:    "trusted single ip uses first forwarded entry",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5000",
			headers: map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.2"},
			want:    "5.6.7.8",
		},
		{
			name:    "untrusted source keeps remote addr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "192.168.1.9:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "192.168.1.9:5000",
		},
		{
			name:    "invalid header value is ignored",
			trusted: []string{"10.0.0.0/8", "not-an-ip"},
			remote:  "10.0.0.1:5000",
			headers: map[string]string{"X-Real-IP": "garbage"},
			want:    "10.0.0.1:5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
