package lang

import (
	"strings"

	"smake/internal/functional"
	"smake/internal/values"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/exp/slices"
)

// Rule is a target, the targets it depends on and the command that
// produces it. A rule without a command only aggregates its dependencies
type Rule struct {
	Target       string
	Dependencies []string
	Command      values.OptionalString
	// DefRange points to the target token that declared this rule
	DefRange hcl.Range `cty:"-"`
}

func (rule Rule) String() string {
	var builder strings.Builder
	builder.WriteString(rule.Target)
	builder.WriteString(":")
	for _, dep := range rule.Dependencies {
		builder.WriteString(" " + dep)
	}

	if rule.Command.Valid {
		builder.WriteString(` = "` + rule.Command.String + `"`)
	}

	builder.WriteString(";")
	return builder.String()
}

func (rule Rule) CTY() cty.Value {
	if rule.Dependencies == nil {
		rule.Dependencies = []string{}
	}

	return cty.ObjectVal(values.CTY(rule))
}

// RuleSet keeps rules in the order they were declared. Targets are not
// unique; lookups return the first declaration
type RuleSet []Rule

// Root is the rule a plan starts from when no target is given
func (rules RuleSet) Root() (Rule, bool) {
	if len(rules) == 0 {
		return Rule{}, false
	}

	return rules[0], true
}

func (rules RuleSet) Lookup(target string) (Rule, bool) {
	index := slices.IndexFunc(rules, func(rule Rule) bool {
		return rule.Target == target
	})
	if index == -1 {
		return Rule{}, false
	}

	return rules[index], true
}

func (rules RuleSet) Targets() []string {
	return functional.Map(rules, func(rule Rule) string { return rule.Target })
}

func (rules RuleSet) String() string {
	lines := make([]string, len(rules))
	for index, rule := range rules {
		lines[index] = rule.String()
	}

	return strings.Join(lines, "\n")
}

func (rules RuleSet) CTY() cty.Value {
	if len(rules) == 0 {
		return cty.ListValEmpty(Rule{}.CTY().Type())
	}

	result := make([]cty.Value, len(rules))
	for index, rule := range rules {
		result[index] = rule.CTY()
	}

	return cty.ListVal(result)
}
