package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

type deploymentRow struct {
	Repo    string `json:"repo" yaml:"repo"`
	Port    int    `json:"port" yaml:"port"`
	Webhook *bool  `json:"webhook,omitempty" yaml:"webhook,omitempty"`
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	rows := []deploymentRow{
		{Repo: "alice-shop-deployed", Port: 8080},
		{Repo: "bob-api-deployed", Port: 3000},
	}
	if err := writer.Serialize(context.Background(), rows); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got []deploymentRow
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 || got[1].Repo != "bob-api-deployed" {
		t.Errorf("unexpected rows: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented JSON")
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), deploymentRow{Repo: "alice-shop-deployed", Port: 8080}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got deploymentRow
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got.Port != 8080 {
		t.Errorf("expected port 8080, got %d", got.Port)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	enabled := true
	tests := []struct {
		name     string
		data     any
		contains []string
		excludes []string
	}{
		{
			name:     "slice of structs",
			data:     []deploymentRow{{Repo: "a", Port: 1}, {Repo: "b", Port: 2, Webhook: &enabled}},
			contains: []string{"PORT", "REPO", "WEBHOOK", "a  ", "true", "-"},
			excludes: []string{"FIELD", "[0]"},
		},
		{
			name: "list wrapper",
			data: struct {
				Items []*deploymentRow `json:"items"`
				Count int              `json:"count"`
			}{Items: []*deploymentRow{{Repo: "alice-shop-deployed", Port: 8080}}, Count: 1},
			contains: []string{"REPO", "alice-shop-deployed", "8080"},
			excludes: []string{"FIELD", "count"},
		},
		{
			name: "struct with time",
			data: struct {
				Repo string    `json:"repo"`
				At   time.Time `json:"at"`
				Skip string    `json:"-"`
			}{Repo: "r", At: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), Skip: "hidden"},
			contains: []string{"FIELD", "repo", "at", "2025-01-02 03:04:05"},
			excludes: []string{"hidden", "at.wall"},
		},
		{
			name:     "map",
			data:     map[string]any{"status": "success", "repo_name": "x"},
			contains: []string{"status", "repo_name", "success"},
		},
		{
			name:     "nested",
			data:     map[string]any{"webhook": map[string]string{"status": "skipped"}},
			contains: []string{"webhook.status", "skipped"},
		},
		{
			name:     "scalar",
			data:     "alice-shop-deployed",
			contains: []string{"value", "alice-shop-deployed"},
		},
		{
			name:     "empty",
			data:     map[string]any{},
			contains: []string{"<empty>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.data); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected %q in output:\n%s", want, buf.String())
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(buf.String(), unwanted) {
					t.Errorf("unexpected %q in output:\n%s", unwanted, buf.String())
				}
			}
		})
	}
}

func TestNewWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter("xml", &buf)

	if err := writer.Serialize(context.Background(), deploymentRow{Repo: "r", Port: 80}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	var got deploymentRow
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected JSON fallback: %v", err)
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path uses stdout", func(t *testing.T) {
		for _, path := range []string{"", "  ", "\t"} {
			w := NewFileWriterOrStdout(FormatJSON, path)
			if w == nil {
				t.Fatalf("nil writer for %q", path)
			}
			if c, ok := w.(Closer); ok {
				if err := c.Close(); err != nil {
					t.Errorf("Close failed: %v", err)
				}
			}
		}
	})

	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "result.yaml")
		w := NewFileWriterOrStdout(FormatYAML, path)
		if err := w.Serialize(context.Background(), deploymentRow{Repo: "r", Port: 80}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if c, ok := w.(Closer); ok {
			if err := c.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			if err := c.Close(); err != nil {
				t.Errorf("second Close should be a no-op: %v", err)
			}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !strings.Contains(string(content), "repo: r") {
			t.Errorf("unexpected file content: %s", content)
		}
	})

	t.Run("bad path falls back", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, "/nonexistent/dir/out.json")
		if w == nil {
			t.Fatal("expected stdout fallback writer")
		}
	})
}

func TestFormat_IsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		if Format(f).IsUnknown() {
			t.Errorf("%s should be known", f)
		}
	}
	if !Format("toml").IsUnknown() {
		t.Error("toml should be unknown")
	}
}

func TestWriteToFile_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k8s", "deployment.yaml")
	if err := WriteToFile(path, []byte("kind: Deployment\n")); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "kind: Deployment\n" {
		t.Errorf("unexpected content %q", got)
	}
}
