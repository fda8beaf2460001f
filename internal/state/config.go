package state

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/mitchellh/colorstring"
)

type Config struct {
	CWD string
	// File is the absolute path of the rule file
	File string
	// Target overrides the root rule; empty means the first rule
	Target string
	Flags  Flags
	Stdout io.Writer
	colors colorstring.Colorize
}

type Flags struct {
	Dry     bool
	Verbose bool
	NoColor bool
	Print   bool
	JSON    bool
}

func NewFlags(dry, verbose, noColor, print, json bool) (Flags, error) {
	if print && json {
		return Flags{}, fmt.Errorf(`"print" and "json" are contradictory flags`)
	}

	return Flags{
		Dry:     dry,
		Verbose: verbose,
		NoColor: noColor,
		Print:   print,
		JSON:    json,
	}, nil
}

func NewConfig(cwd, file, target string, flags Flags) *Config {
	return &Config{
		CWD:    cwd,
		File:   file,
		Target: target,
		Flags:  flags,
		Stdout: os.Stdout,
		colors: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: flags.NoColor,
			Reset:   true,
		},
	}
}

// Color expands colorstring tags like [green] or strips them when
// colors are disabled
func (config Config) Color(text string) string {
	return config.colors.Color(text)
}

func (config Config) NewLogger(target string) *log.Logger {
	return log.New(config.Stdout, target+": ", 0)
}

// ResolveFile finds the rule file referred by pattern. Plain paths are
// returned as they are; glob patterns are resolved relative to cwd and
// MUST match exactly one file
func ResolveFile(cwd, pattern string) (string, hcl.Diagnostics) {
	if !strings.ContainsAny(pattern, "*?[{") {
		if filepath.IsAbs(pattern) {
			return pattern, nil
		}

		return filepath.Join(cwd, pattern), nil
	}

	matches, err := doublestar.Glob(os.DirFS(cwd), filepath.ToSlash(pattern))
	if err != nil {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf(`pattern "%s" is malformed`, pattern),
			Detail:   err.Error(),
		}}
	}

	switch len(matches) {
	case 0:
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf(`pattern "%s" doesn't match any file`, pattern),
			Detail:   "patterns are resolved relative to " + cwd,
		}}
	case 1:
		return filepath.Join(cwd, filepath.FromSlash(matches[0])), nil
	default:
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf(`pattern "%s" matches more than one file`, pattern),
			Detail:   "found " + strings.Join(matches, ", ") + ". Please choose only one of them",
		}}
	}
}
