package state

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFlags(t *testing.T) {
	if _, err := NewFlags(false, false, false, true, true); err == nil {
		t.Error("expected print and json to be rejected together")
	}

	flags, err := NewFlags(true, true, true, false, true)
	if err != nil {
		t.Fatal(err)
	}

	if !flags.Dry || !flags.Verbose || !flags.NoColor || flags.Print || !flags.JSON {
		t.Errorf("unexpected flags %#v", flags)
	}
}

func TestColor(t *testing.T) {
	plain := NewConfig("", "", "", Flags{NoColor: true})
	if got := plain.Color("[green]run"); got != "run" {
		t.Errorf("expected tags to be stripped but got %q", got)
	}

	colored := NewConfig("", "", "", Flags{})
	if got := colored.Color("[green]run"); got == "run" || !strings.Contains(got, "run") {
		t.Errorf("expected an ANSI colored string but got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	config := NewConfig("", "", "", Flags{})
	config.Stdout = &out
	config.NewLogger("main.o").Println("hello")
	if out.String() != "main.o: hello\n" {
		t.Errorf("unexpected log line %q", out.String())
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(path, nil, 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "build", "rules.mk"))
	touch(t, filepath.Join(dir, "a.mk"))
	touch(t, filepath.Join(dir, "b.mk"))

	tests := []struct {
		name    string
		pattern string
		want    string
		fails   bool
	}{
		{"relative path", "rules", filepath.Join(dir, "rules"), false},
		{"absolute path", "/tmp/rules", "/tmp/rules", false},
		{"single match", "**/rules.mk", filepath.Join(dir, "build", "rules.mk"), false},
		{"no match", "*.txt", "", true},
		{"ambiguous", "*.mk", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := ResolveFile(dir, tt.pattern)
			if tt.fails {
				if !diags.HasErrors() {
					t.Errorf("expected %q to fail but got %s", tt.pattern, got)
				}
				return
			}

			if diags.HasErrors() {
				t.Fatal(diags)
			}

			if got != tt.want {
				t.Errorf("expected %s but got %s", tt.want, got)
			}
		})
	}
}
