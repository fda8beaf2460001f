package topo

import (
	"errors"
	"fmt"
	"strings"

	"smake/internal/action"
	"smake/internal/functional"
	"smake/internal/lang"
	"smake/internal/state"

	"github.com/hashicorp/hcl/v2"
)

type mark int

const (
	unmarked mark = iota
	temporary
	permanent
)

type ruleMark struct {
	lang.Rule
	mark
	// rebuilt is true once the rule's command ran, or would have on a dry run
	rebuilt bool
}

// Planner walks the rule graph depth first and runs the command of every
// rule that is older than one of its dependencies. A dependency is always
// resolved before its modification time is compared
type Planner struct {
	rules   lang.RuleSet
	files   Files
	runner  action.Runner
	config  *state.Config
	markers map[string]*ruleMark
}

func NewPlanner(rules lang.RuleSet, files Files, runner action.Runner, config *state.Config) *Planner {
	return &Planner{
		rules:   rules,
		files:   files,
		runner:  runner,
		config:  config,
		markers: map[string]*ruleMark{},
	}
}

// Plan brings target up to date; an empty target means the first rule.
// The returned error is either hcl.Diagnostics or an *action.Fault
func (planner *Planner) Plan(target string) error {
	root, err := planner.root(target)
	if err != nil {
		return err
	}

	_, err = planner.visit(root)
	return err
}

var errNoRules = errors.New("the rule file doesn't contain any rule")

func (planner *Planner) root(target string) (lang.Rule, error) {
	if target == "" {
		rule, ok := planner.rules.Root()
		if !ok {
			return lang.Rule{}, &action.Fault{Op: "plan", Err: errNoRules}
		}

		return rule, nil
	}

	rule, ok := planner.rules.Lookup(target)
	if ok {
		return rule, nil
	}

	summary := "couldn't find any rule for target " + target
	suggestion := functional.Suggest(target, planner.rules.Targets())
	if suggestion != "" {
		summary += fmt.Sprintf(`. Did you mean "%s"?`, suggestion)
	}

	return lang.Rule{}, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
	}}
}

const cyclicalDependency = "cyclical dependency detected"

func (planner *Planner) visit(rule lang.Rule) (*ruleMark, error) {
	id, found := planner.markers[rule.Target]
	if !found {
		id = &ruleMark{Rule: rule}
		planner.markers[rule.Target] = id
	}

	if id.mark == permanent {
		return id, nil
	}

	if id.mark == temporary {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  cyclicalDependency,
			Detail:   rule.Target,
			Subject:  rule.DefRange.Ptr(),
		}}
	}

	id.mark = temporary
	log := planner.config.NewLogger(rule.Target)
	targetTime, _ := planner.files.Stat(rule.Target)
	reason := ""
	for _, dep := range rule.Dependencies {
		rebuilt := false
		depRule, ok := planner.rules.Lookup(dep)
		if ok {
			inner, err := planner.visit(depRule)
			if err != nil {
				return nil, withCycleStep(rule.Target, err)
			}

			rebuilt = inner.rebuilt
		}

		// read after visiting so that a rebuilt dependency is seen fresh
		depTime, exists := planner.files.Stat(dep)
		if !ok && !exists && planner.config.Flags.Verbose {
			log.Printf(`"%s" has no rule and doesn't exist ... ignoring`, dep)
		}

		// a dry run doesn't touch the filesystem, so rely on what would have happened
		newer := depTime.After(targetTime) || (planner.config.Flags.Dry && rebuilt)
		if newer && reason == "" {
			reason = fmt.Sprintf(`"%s" is newer than "%s"`, dep, rule.Target)
		}
	}
	id.mark = permanent

	// NOTE: a rule without dependencies is never stale, even if its target is missing
	if reason == "" {
		if planner.config.Flags.Verbose {
			log.Println(planner.config.Color("[dark_gray]skip") + " " + upToDate(rule))
		}
		return id, nil
	}

	if !rule.Command.Valid {
		if planner.config.Flags.Verbose {
			log.Println(planner.config.Color("[dark_gray]skip") + " " + reason + " ... nothing to run")
		}
		return id, nil
	}

	id.rebuilt = true
	if planner.config.Flags.Dry {
		log.Println(planner.config.Color("[yellow]dry-run") + " " + rule.Command.String + " ... " + reason)
		return id, nil
	}

	log.Println(planner.config.Color("[green]run") + " " + rule.Command.String + " ... " + reason)
	err := planner.runner.Run(rule.Target, rule.Command.String, log)
	if err != nil {
		return nil, err
	}

	return id, nil
}

func upToDate(rule lang.Rule) string {
	if len(rule.Dependencies) == 0 {
		return "no dependencies ... up to date"
	}

	return "all dependencies are older ... up to date"
}

// withCycleStep prepends target to the path of a cyclical dependency until
// the path starts where it ends, e.g. "a -> b -> a"
func withCycleStep(target string, err error) error {
	diags, ok := err.(hcl.Diagnostics)
	if !ok {
		return err
	}

	for _, diag := range diags {
		if diag.Summary != cyclicalDependency {
			continue
		}

		steps := strings.Split(diag.Detail, " -> ")
		if len(steps) > 1 && steps[0] == steps[len(steps)-1] {
			continue
		}

		diag.Detail = fmt.Sprintf("%s -> %s", target, diag.Detail)
	}

	return diags
}
