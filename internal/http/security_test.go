package http

import (
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct", "203.0.113.7:4321", "", "", "203.0.113.7"},
		{"trusted proxy honors xff", "10.0.0.1:80", "203.0.113.9, 10.0.0.1", "", "203.0.113.9"},
		{"trusted proxy honors xri", "127.0.0.1:80", "", "203.0.113.10", "203.0.113.10"},
		{"untrusted peer ignores xff", "203.0.113.7:80", "1.2.3.4", "", "203.0.113.7"},
		{"garbage xff falls back", "192.168.1.5:80", "not-an-ip", "", "192.168.1.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/transactions", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := extractClientIP(r); got != tc.want {
				t.Errorf("extractClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	cases := []struct {
		name   string
		target string
		agent  string
		want   bool
	}{
		{"normal", "/api/transactions", "contas-cli/1.0", false},
		{"path traversal", "/api/../etc/passwd", "", true},
		{"env probe", "/.env", "", true},
		{"probe in query", "/api/reports/period?file=.env", "", true},
		{"scanner agent", "/api/transactions", "sqlmap/1.5", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var metrics securityMetrics
			r := httptest.NewRequest("GET", tc.target, nil)
			if tc.agent != "" {
				r.Header.Set("User-Agent", tc.agent)
			}
			if got := detectSuspiciousRequest(r, &metrics); got != tc.want {
				t.Errorf("detectSuspiciousRequest = %v, want %v", got, tc.want)
			}
			_, suspicious := metrics.snapshot()
			if tc.want && suspicious != 1 {
				t.Errorf("suspicious counter = %d, want 1", suspicious)
			}
		})
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()

	var metrics securityMetrics
	for i := 0; i < 3; i++ {
		if !rl.allow("198.51.100.1", &metrics) {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}
	if rl.allow("198.51.100.1", &metrics) {
		t.Error("request over the limit was allowed")
	}
	limited, _ := metrics.snapshot()
	if limited != 1 {
		t.Errorf("rate limit counter = %d, want 1", limited)
	}

	// Other clients are unaffected.
	if !rl.allow("198.51.100.2", &metrics) {
		t.Error("separate client was limited")
	}
}
