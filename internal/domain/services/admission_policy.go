// Package services contains domain services for profile admission.
package services

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/profilecache/internal/domain/entities"
)

// ProfileEnv defines the variables available during admission rule evaluation.
type ProfileEnv struct {
	Username string `expr:"username"`
	Email    string `expr:"email"`
	Local    string `expr:"local"`
	Domain   string `expr:"domain"`
}

// NewProfileEnv builds the evaluation environment for a profile snapshot.
func NewProfileEnv(snap entities.ProfileSnapshot) ProfileEnv {
	local, domain, _ := strings.Cut(snap.Email, "@")
	return ProfileEnv{
		Username: snap.Username,
		Email:    snap.Email,
		Local:    local,
		Domain:   domain,
	}
}

// AdmissionRule is a named boolean expression a new profile must satisfy.
type AdmissionRule struct {
	Name       string
	Expression string
}

// RuleViolation reports the admission rule that rejected a profile.
type RuleViolation struct {
	Rule   string
	Reason string
}

func (v *RuleViolation) Error() string {
	return fmt.Sprintf("admission rule %q rejected profile: %s", v.Rule, v.Reason)
}

type compiledRule struct {
	program *vm.Program
	name    string
}

// AdmissionPolicy evaluates compiled admission rules in declaration order.
// A nil policy admits everything.
type AdmissionPolicy struct {
	rules []compiledRule
}

// NewAdmissionPolicy compiles rules. Every expression must yield a bool.
func NewAdmissionPolicy(rules []AdmissionRule) (*AdmissionPolicy, error) {
	policy := &AdmissionPolicy{rules: make([]compiledRule, 0, len(rules))}

	for i, rule := range rules {
		name := rule.Name
		if name == "" {
			name = fmt.Sprintf("rule[%d]", i)
		}
		if strings.TrimSpace(rule.Expression) == "" {
			return nil, fmt.Errorf("admission rule %q has an empty expression", name)
		}

		program, err := expr.Compile(rule.Expression, expr.Env(ProfileEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("failed to compile admission rule %q: %w", name, err)
		}
		policy.rules = append(policy.rules, compiledRule{name: name, program: program})
	}

	return policy, nil
}

// Len returns the number of rules.
func (p *AdmissionPolicy) Len() int {
	if p == nil {
		return 0
	}
	return len(p.rules)
}

// Admit returns a *RuleViolation for the first rule the snapshot fails.
func (p *AdmissionPolicy) Admit(snap entities.ProfileSnapshot) error {
	if p == nil {
		return nil
	}

	env := NewProfileEnv(snap)
	for _, rule := range p.rules {
		output, err := expr.Run(rule.program, env)
		if err != nil {
			return &RuleViolation{Rule: rule.name, Reason: fmt.Sprintf("expression error: %v", err)}
		}

		result, ok := output.(bool)
		if !ok {
			return &RuleViolation{Rule: rule.name, Reason: fmt.Sprintf("expression did not return boolean: %v", output)}
		}
		if !result {
			return &RuleViolation{Rule: rule.name, Reason: "expression evaluated to false"}
		}
	}

	return nil
}
