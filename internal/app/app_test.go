package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewApp_DefaultsWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DIVICAST_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	a, err := NewApp(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	if a.Oracle != nil {
		t.Error("oracle must be nil without an API key")
	}
	if a.Analysis == nil {
		t.Fatal("analysis service must be wired even without an oracle")
	}
	if a.MCPServer == nil {
		t.Error("MCP server must be initialized")
	}
	if got := len(a.Analysis.Portfolio().Securities); got != 9 {
		t.Errorf("portfolio has %d securities, want the 9 defaults", got)
	}
}

func TestNewApp_ConfigFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DIVICAST_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "divicast.toml")
	content := `
[server]
port = 9191

[[portfolio]]
name = "Iberdrola"
ticker = "BME:IBE"
shares = 300
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := NewApp(path)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	if a.Config.Server.Port != 9191 {
		t.Errorf("port = %d, want 9191", a.Config.Server.Port)
	}
	if got := len(a.Analysis.Portfolio().Securities); got != 1 {
		t.Errorf("portfolio has %d securities, want 1 from the file", got)
	}
}

func TestNewApp_RejectsInvalidPortfolio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "divicast.toml")
	content := `
[[portfolio]]
name = "Broken"
ticker = "NOEXCHANGE"
shares = 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewApp(path); err == nil {
		t.Error("expected error for unqualified ticker")
	}
}
