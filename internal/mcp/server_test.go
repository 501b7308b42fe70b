package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koopa0/ctfscope/internal/log"
	"github.com/koopa0/ctfscope/internal/security"
	"github.com/koopa0/ctfscope/internal/tools"
)

// testHelper provides common test utilities.
type testHelper struct {
	t    *testing.T
	root string
}

// newTestHelper creates a helper with a scenario tree under a fresh temp
// directory:
//
//	etc/config.txt
//	home/user.txt
//	puzzles/hint.txt
//	puzzles/flag.b64
func newTestHelper(t *testing.T) *testHelper {
	t.Helper()
	// Resolve symlinks in temp dir path (macOS /var -> /private/var)
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir symlinks: %v", err)
	}

	files := map[string]string{
		"etc/config.txt":   "setting=1\n",
		"home/user.txt":    "hello\n",
		"puzzles/hint.txt": "the flag is base64 encoded\n",
		"puzzles/flag.b64": "ZmxhZ3tnb3BoZXJzfQ==\n",
	}
	for name, content := range files {
		full := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("creating parent of %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	return &testHelper{t: t, root: root}
}

func (h *testHelper) createFileTools() *tools.FileTools {
	h.t.Helper()
	boundary, err := security.NewPath(h.root)
	if err != nil {
		h.t.Fatalf("failed to create path validator: %v", err)
	}

	ft, err := tools.NewFileTools(boundary, log.NewNop())
	if err != nil {
		h.t.Fatalf("failed to create file tools: %v", err)
	}
	return ft
}

func (h *testHelper) createValidConfig() Config {
	h.t.Helper()
	return Config{
		Name:      "test-server",
		Version:   "1.0.0",
		Logger:    log.NewNop(),
		FileTools: h.createFileTools(),
	}
}

func TestNewServer_Success(t *testing.T) {
	h := newTestHelper(t)

	server, err := NewServer(h.createValidConfig())
	if err != nil {
		t.Fatalf("NewServer() unexpected error: %v", err)
	}

	if server.name != "test-server" {
		t.Errorf("server.name = %q, want %q", server.name, "test-server")
	}
	if server.version != "1.0.0" {
		t.Errorf("server.version = %q, want %q", server.version, "1.0.0")
	}
	if server.mcpServer == nil {
		t.Error("server.mcpServer is nil")
	}
}

func TestNewServer_Validation(t *testing.T) {
	h := newTestHelper(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing name", mutate: func(c *Config) { c.Name = "" }},
		{name: "missing version", mutate: func(c *Config) { c.Version = "" }},
		{name: "missing file tools", mutate: func(c *Config) { c.FileTools = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := h.createValidConfig()
			tt.mutate(&cfg)
			if _, err := NewServer(cfg); err == nil {
				t.Error("NewServer() expected error, got nil")
			}
		})
	}
}

// TestNewServer_DefaultLogger verifies a nil logger falls back to the
// default instead of failing.
func TestNewServer_DefaultLogger(t *testing.T) {
	h := newTestHelper(t)
	cfg := h.createValidConfig()
	cfg.Logger = nil

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() unexpected error: %v", err)
	}
	if server.logger == nil {
		t.Error("server.logger is nil after default fallback")
	}
}
