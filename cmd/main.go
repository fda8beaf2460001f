package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"smake/internal"
	"smake/internal/action"
	"smake/internal/state"

	"github.com/hashicorp/hcl/v2"
	"github.com/urfave/cli/v2"
)

func main() {
	// where are we?
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}

	log, err := do(cwd, os.Args, os.Stdout)
	// success, stop early
	if err == nil {
		os.Exit(0)
	}

	// did we get a diagnostic?
	var diags hcl.Diagnostics
	if errors.As(err, &diags) {
		log.WriteDiagnostics(diags)
		os.Exit(1)
	}

	var fault *action.Fault
	if errors.As(err, &fault) {
		fmt.Println(fault)
		os.Exit(2)
	}

	// random err
	fmt.Println(err)
	os.Exit(3)
}

func do(cwd string, args []string, stdout io.Writer) (hcl.DiagnosticWriter, error) {
	// no rule file has been read yet, so no snippets
	log := hcl.NewDiagnosticTextWriter(stdout, nil, 78, true)
	err := App(cwd, stdout, &log).Run(args)
	return log, err
}

const (
	File    = "file"
	DryRun  = "dry-run"
	Verbose = "verbose"
	NoColor = "no-color"
	Print   = "print"
	JSON    = "json"
)

var (
	FileFlag = &cli.StringFlag{
		Name:      File,
		Aliases:   []string{"f"},
		Usage:     "Read rules from `FILE`; a glob pattern must match exactly one file",
		EnvVars:   []string{"SMAKE_FILE"},
		Required:  true,
		TakesFile: true,
	}
	DryRunFlag = &cli.BoolFlag{
		Name:    DryRun,
		Aliases: []string{"n"},
		Usage:   "Don't actually run any command; just print them",
		EnvVars: []string{"SMAKE_DRY_RUN"},
	}
	VerboseFlag = &cli.BoolFlag{
		Name:    Verbose,
		Aliases: []string{"v"},
		Usage:   "Also report targets that are up to date",
	}
	NoColorFlag = &cli.BoolFlag{
		Name:    NoColor,
		Usage:   "Disable colored output",
		EnvVars: []string{"NO_COLOR"},
	}
	PrintFlag = &cli.BoolFlag{
		Name:  Print,
		Usage: "Print the parsed rules in canonical form instead of running them",
	}
	JSONFlag = &cli.BoolFlag{
		Name:  JSON,
		Usage: "Print the parsed rules as JSON instead of running them",
	}
)

// App builds the command line interface. log is replaced by a writer that
// knows the rule file once it has been read
func App(cwd string, stdout io.Writer, log *hcl.DiagnosticWriter) *cli.App {
	return &cli.App{
		Name:      "smake",
		Usage:     "Rebuild targets that are older than their dependencies",
		UsageText: "smake --file FILE [--dry-run] [--verbose] [--no-color] [--print | --json] [TARGET]",
		Writer:    stdout,
		ErrWriter: stdout,
		Flags: []cli.Flag{
			FileFlag,
			DryRunFlag,
			VerboseFlag,
			NoColorFlag,
			PrintFlag,
			JSONFlag,
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("expected at most one target but got %d: %v", c.NArg(), c.Args().Slice())
			}

			flags, err := state.NewFlags(c.Bool(DryRun), c.Bool(Verbose), c.Bool(NoColor), c.Bool(Print), c.Bool(JSON))
			if err != nil {
				return err
			}

			*log = hcl.NewDiagnosticTextWriter(stdout, nil, 78, !flags.NoColor)
			file, diags := state.ResolveFile(cwd, c.String(File))
			if diags.HasErrors() {
				return diags
			}

			config := state.NewConfig(cwd, file, c.Args().First(), flags)
			config.Stdout = stdout
			system := internal.NewSystem(config)
			*log = system.DiagnosticWriter()
			return system.Do()
		},
	}
}
