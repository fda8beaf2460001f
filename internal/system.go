package internal

import (
	"fmt"
	"os"

	"smake/internal/action"
	"smake/internal/lang"
	"smake/internal/state"
	"smake/internal/topo"

	"github.com/hashicorp/hcl/v2"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// System ties a rule file to the planner and runner that act on it
type System struct {
	config *state.Config
	files  map[string]*hcl.File
}

func NewSystem(config *state.Config) *System {
	return &System{
		config: config,
		files:  map[string]*hcl.File{},
	}
}

// DiagnosticWriter renders diagnostics with snippets of every file read so far
func (system System) DiagnosticWriter() hcl.DiagnosticWriter {
	return hcl.NewDiagnosticTextWriter(system.config.Stdout, system.files, 78, !system.config.Flags.NoColor)
}

func (system System) ReadRules() (lang.RuleSet, hcl.Diagnostics) {
	src, err := os.ReadFile(system.config.File)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "couldn't read rule file " + system.config.File,
			Detail:   err.Error(),
		}}
	}

	system.files[system.config.File] = &hcl.File{Bytes: src}
	return lang.Parse(system.config.File, src)
}

// Do reads the rule file and either prints it or brings the selected
// target up to date
func (system System) Do() error {
	rules, diags := system.ReadRules()
	if diags.HasErrors() {
		return diags
	}

	switch {
	case system.config.Flags.Print:
		_, err := fmt.Fprintln(system.config.Stdout, rules.String())
		return err
	case system.config.Flags.JSON:
		value := rules.CTY()
		out, err := ctyjson.Marshal(value, value.Type())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(system.config.Stdout, string(out))
		return err
	}

	files := topo.FileSystem{Dir: system.config.CWD}
	runner := action.Process{Dir: system.config.CWD}
	return topo.NewPlanner(rules, files, runner, system.config).Plan(system.config.Target)
}
