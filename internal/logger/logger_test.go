package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

// SetupがJSON形式でログを出力することを検証
func TestSetup_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf)

	logger.Info("test message", slog.String("key", "value"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

// DebugレベルのログがInfoレベル設定で抑制されることを検証
func TestSetup_SuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf)

	logger.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("expected no output for debug log, got %q", buf.String())
	}
}
