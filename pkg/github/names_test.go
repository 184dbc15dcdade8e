package github

import (
	"errors"
	"testing"
)

func TestDeploymentRepoName(t *testing.T) {
	tests := []struct {
		username string
		app      string
		want     string
	}{
		{"Alice", "shop", "alice-shop-deployed"},
		{"alice", "shop", "alice-shop-deployed"},
		{"BOB-Dev", "api-v2", "bob-dev-api-v2-deployed"},
		{"carol", "MyApp", "carol-MyApp-deployed"},
	}

	for _, tt := range tests {
		t.Run(tt.username+"/"+tt.app, func(t *testing.T) {
			if got := DeploymentRepoName(tt.username, tt.app); got != tt.want {
				t.Errorf("DeploymentRepoName(%q, %q) = %q, want %q", tt.username, tt.app, got, tt.want)
			}
		})
	}
}

func TestDeploymentRepoName_Stable(t *testing.T) {
	first := DeploymentRepoName("Alice", "shop")
	for range 10 {
		if got := DeploymentRepoName("Alice", "shop"); got != first {
			t.Fatalf("expected stable name %q, got %q", first, got)
		}
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https", "https://github.com/alice/shop", "alice", "shop", false},
		{"https with .git", "https://github.com/alice/shop.git", "alice", "shop", false},
		{"trailing slash", "https://github.com/alice/shop/", "alice", "shop", false},
		{"www", "https://www.github.com/alice/shop", "alice", "shop", false},
		{"no scheme", "github.com/alice/shop", "alice", "shop", false},
		{"no scheme www", "www.github.com/alice/shop.git", "alice", "shop", false},
		{"ssh scp form", "git@github.com:alice/shop.git", "alice", "shop", false},
		{"ssh url", "ssh://git@github.com/alice/shop.git", "alice", "shop", false},
		{"extra segments", "https://github.com/alice/shop/tree/main", "alice", "shop", false},
		{"surrounding space", "  https://github.com/alice/shop  ", "alice", "shop", false},
		{"empty", "", "", "", true},
		{"owner only", "https://github.com/alice", "", "", true},
		{"no host", "alice/shop", "", "", true},
		{"scheme without host", "https:///alice/shop", "", "", true},
		{"scp without colon", "git@github.com/alice/shop", "", "", true},
		{"only .git", "https://github.com/alice/.git", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s/%s", tt.raw, owner, repo)
				}
				if !errors.Is(err, ErrInvalidRepoURL) {
					t.Errorf("expected ErrInvalidRepoURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoURL(%q) = %s/%s, want %s/%s", tt.raw, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}
