package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLevels(t *testing.T) {
	color.NoColor = true
	var errBuf bytes.Buffer
	l := Logger{Err: &errBuf}

	l.Infof("hidden %d", 1)
	l.Debugf("hidden %d", 2)
	if errBuf.Len() != 0 {
		t.Fatalf("expected no output without flags, got %q", errBuf.String())
	}

	l.Warnf("careful")
	l.Errorf("broken: %v", "disk")
	out := errBuf.String()
	if !strings.Contains(out, "[warn] careful") || !strings.Contains(out, "[error] broken: disk") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDebugImpliesInfo(t *testing.T) {
	color.NoColor = true
	var errBuf bytes.Buffer
	l := Logger{Debug: true, Err: &errBuf}
	l.Infof("a")
	l.Debugf("b")
	if !strings.Contains(errBuf.String(), "[info] a") || !strings.Contains(errBuf.String(), "[debug] b") {
		t.Errorf("unexpected output %q", errBuf.String())
	}
}
