package debuglog

import (
	"bytes"
	"strings"
	"testing"
)

func TestEnableRoutesComponentLogs(t *testing.T) {
	var buf bytes.Buffer
	Enable(&buf, "debug")
	defer Disable()

	With("test-component").Debug("something happened", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "test-component") {
		t.Errorf("component field missing: %q", out)
	}
	if !strings.Contains(out, "something happened") {
		t.Errorf("message missing: %q", out)
	}
}

func TestDisableSilences(t *testing.T) {
	var buf bytes.Buffer
	Enable(&buf, "debug")
	Disable()

	With("quiet").Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("output after Disable: %q", buf.String())
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Enable(&buf, "nonsense")
	defer Disable()

	logger := With("levels")
	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info line should pass at info level")
	}
}
