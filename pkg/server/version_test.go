package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNegotiateAPIVersion(t *testing.T) {
	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"empty accept defaults", "", DefaultAPIVersion},
		{"plain json", "application/json", DefaultAPIVersion},
		{"github media type ignored", "application/vnd.github+json", DefaultAPIVersion},
		{"vendor v1", "application/vnd.repodeploy.v1+json", "v1"},
		{"vendor v2 unsupported", "application/vnd.repodeploy.v2+json", DefaultAPIVersion},
		{"vendor malformed", "application/vnd.repodeploy.vBAD+json", DefaultAPIVersion},
		{"vendor among several", "text/html, application/vnd.repodeploy.v1+json;q=0.9", "v1"},
		{"vendor without suffix", "application/vnd.repodeploy.v1", "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/deploy", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if got := negotiateAPIVersion(req); got != tt.want {
				t.Fatalf("negotiateAPIVersion(Accept=%q) = %q, want %q", tt.accept, got, tt.want)
			}
		})
	}
}

func TestAPIVersionFrom_Default(t *testing.T) {
	if got := APIVersionFrom(context.Background()); got != DefaultAPIVersion {
		t.Errorf("APIVersionFrom() = %q, want %q", got, DefaultAPIVersion)
	}
}
