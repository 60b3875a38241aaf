package cli

import (
	"fmt"
	"testing"

	errs "github.com/rcliao/tempnotes/internal/errors"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("decrypt 01H: %w", errs.ErrAuthentication), "wrong password"},
		{fmt.Errorf("restore: %w", errs.ErrIndexOutOfRange), "no such recycled entry"},
		{fmt.Errorf("passwords do not match"), "passwords do not match"},
	}
	for _, tt := range tests {
		if got := describe(tt.err); got != tt.want {
			t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"abcd":        "abcd",
		"sk-12345678": "****5678",
	}
	for in, want := range tests {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadInputArgs(t *testing.T) {
	if got := readInput([]string{"hello", "world"}); got != "hello world" {
		t.Errorf("readInput = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"draft", "show", "list", "search", "load", "rm", "recycle", "encrypt", "decrypt",
		"export", "import", "settings", "stats", "clear-all", "config", "edit"}
	for _, name := range want {
		cmd, _, err := RootCmd.Find([]string{name})
		if err != nil || cmd == RootCmd {
			t.Errorf("command %q not registered", name)
		}
	}
}
