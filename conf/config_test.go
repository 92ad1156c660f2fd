package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
)

// 清空会影响配置的环境变量，t.Setenv 会在测试结束后恢复
func clearEnv(t *testing.T) {
	for _, k := range []string{EnvPort, EnvSharedSecret, EnvProductionURL, EnvSandboxURL, EnvTimeout, EnvGinMode} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSharedSecret, "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("default port mismatch: %d", cfg.Port)
	}
	if cfg.Listen() != ":3000" {
		t.Errorf("listen mismatch: %q", cfg.Listen())
	}
	if cfg.Apple.SharedSecret != "env-secret" {
		t.Errorf("secret mismatch: %q", cfg.Apple.SharedSecret)
	}
	if cfg.Apple.ProductionURL != "https://buy.itunes.apple.com/verifyReceipt" {
		t.Errorf("production url mismatch: %q", cfg.Apple.ProductionURL)
	}
	if cfg.Apple.SandboxURL != "https://sandbox.itunes.apple.com/verifyReceipt" {
		t.Errorf("sandbox url mismatch: %q", cfg.Apple.SandboxURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
port: 8080
apple:
  shared_secret: file-secret
  production_url: https://prod.example/verifyReceipt
  sandbox_url: https://sandbox.example/verifyReceipt
  timeout: 3s
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvTimeout, "750ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("env port should win: %d", cfg.Port)
	}
	if cfg.Apple.SharedSecret != "file-secret" {
		t.Errorf("file secret expected: %q", cfg.Apple.SharedSecret)
	}
	if cfg.Apple.ProductionURL != "https://prod.example/verifyReceipt" {
		t.Errorf("production url mismatch: %q", cfg.Apple.ProductionURL)
	}
	if cfg.Apple.Timeout != 750*time.Millisecond {
		t.Errorf("timeout mismatch: %v", cfg.Apple.Timeout)
	}
	// 文件里没有的字段保持默认值
	if cfg.Log.Level != "info" {
		t.Errorf("default log level expected: %q", cfg.Log.Level)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSharedSecret, "secret")
	t.Setenv(EnvPort, "not-a-port")
	t.Setenv(EnvTimeout, "soon")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected both env errors, got %d: %v", n, err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Apple.SharedSecret = ""
	cfg.Apple.SandboxURL = "not a url"
	cfg.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), err)
	}
	msg := err.Error()
	for _, field := range []string{"SharedSecret", "SandboxURL", "Port"} {
		if !strings.Contains(msg, field) {
			t.Errorf("missing %s in %q", field, msg)
		}
	}

	cfg = Default()
	cfg.Apple.SharedSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config with secret should be valid: %v", err)
	}
}
