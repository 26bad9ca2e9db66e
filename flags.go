package main

import (
	"fmt"
	"strings"
)

type stringSlice []string

func (s *stringSlice) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// policyFlag is unset until -tag-policy is given, so the world file's own
// TagPolicy stays in force by default.
type policyFlag struct {
	policy TagPolicy
	set    bool
}

func (p *policyFlag) String() string {
	if p == nil || !p.set {
		return ""
	}
	return p.policy.String()
}

func (p *policyFlag) Set(value string) error {
	policy, ok := parseTagPolicy(value)
	if !ok || value == "" {
		return fmt.Errorf("want last, first or reject, got %q", value)
	}
	p.policy = policy
	p.set = true
	return nil
}

func (p *policyFlag) options() []WorldOption {
	if !p.set {
		return nil
	}
	return []WorldOption{WithTagPolicy(p.policy)}
}
