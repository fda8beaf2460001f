package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
)

const rules = `out: in = "touch out";
all: out;
`

func setup(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "rules.mk"), []byte(src), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	return dir
}

func Test_doPrint(t *testing.T) {
	dir := setup(t, rules)
	var out bytes.Buffer
	_, err := do(dir, []string{"smake", "--file", "rules.mk", "--print"}, &out)
	if err != nil {
		t.Fatal(err)
	}

	want := "out: in = \"touch out\";\nall: out;\n"
	if out.String() != want {
		t.Errorf("expected %q but got %q", want, out.String())
	}
}

func Test_doJSON(t *testing.T) {
	dir := setup(t, rules)
	var out bytes.Buffer
	_, err := do(dir, []string{"smake", "-f", "*.mk", "--json"}, &out)
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"command":"touch out","dependencies":["in"],"target":"out"},` +
		`{"command":null,"dependencies":["out"],"target":"all"}]` + "\n"
	if out.String() != want {
		t.Errorf("expected %q but got %q", want, out.String())
	}
}

func Test_doContradictoryFlags(t *testing.T) {
	dir := setup(t, rules)
	var out bytes.Buffer
	_, err := do(dir, []string{"smake", "-f", "rules.mk", "--print", "--json"}, &out)
	var diags hcl.Diagnostics
	if err == nil || errors.As(err, &diags) {
		t.Errorf("expected a plain error but got %v", err)
	}
}

func Test_doTooManyTargets(t *testing.T) {
	dir := setup(t, rules)
	var out bytes.Buffer
	_, err := do(dir, []string{"smake", "-f", "rules.mk", "out", "all"}, &out)
	if err == nil {
		t.Error("expected more than one target to be rejected")
	}
}

func Test_doSyntaxError(t *testing.T) {
	dir := setup(t, "a b: ;\n")
	var out bytes.Buffer
	log, err := do(dir, []string{"smake", "-f", "rules.mk", "--no-color"}, &out)
	var diags hcl.Diagnostics
	if !errors.As(err, &diags) {
		t.Fatalf("expected diagnostics but got %v", err)
	}

	err = log.WriteDiagnostics(diags)
	if err != nil {
		t.Fatal(err)
	}

	// the writer knows about the rule file, so it shows the offending line
	if !strings.Contains(out.String(), "Expected a `:` but found TARGET") || !strings.Contains(out.String(), "a b: ;") {
		t.Errorf("unexpected diagnostic output:\n%s", out.String())
	}
}

func Test_doMissingFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	_, err := do(dir, []string{"smake", "-f", "rules.mk"}, &out)
	var diags hcl.Diagnostics
	if !errors.As(err, &diags) {
		t.Fatalf("expected diagnostics but got %v", err)
	}
}

func Test_doUnknownTarget(t *testing.T) {
	dir := setup(t, rules)
	var out bytes.Buffer
	_, err := do(dir, []string{"smake", "-f", "rules.mk", "alll"}, &out)
	var diags hcl.Diagnostics
	if !errors.As(err, &diags) {
		t.Fatalf("expected diagnostics but got %v", err)
	}

	if !strings.Contains(diags[0].Summary, `Did you mean "all"?`) {
		t.Errorf("expected a suggestion but got %q", diags[0].Summary)
	}
}

func Test_doRun(t *testing.T) {
	if _, err := exec.LookPath("touch"); err != nil {
		t.Skipf("touch is not available: %v", err)
	}

	dir := setup(t, rules)
	err := os.WriteFile(filepath.Join(dir, "in"), nil, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	_, err = do(dir, []string{"smake", "-f", "rules.mk", "-n", "--no-color"}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Fatalf("a dry run must not create out: %v", err)
	}

	out.Reset()
	_, err = do(dir, []string{"smake", "-f", "rules.mk", "--no-color"}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out.String(), `out: run touch out ... "in" is newer than "out"`) {
		t.Errorf("unexpected output %q", out.String())
	}

	if _, err := os.Stat(filepath.Join(dir, "out")); err != nil {
		t.Errorf("expected out to be created: %v", err)
	}
}
