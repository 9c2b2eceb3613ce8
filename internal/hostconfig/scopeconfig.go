// Package hostconfig holds the two host-level configuration surfaces that
// sit outside the bignum/script domain: an app-wide TOML config
// (appconfig.go) and a line-oriented "scope.member = value" override
// grammar (this file) for scripting host integrations that can't carry a
// full TOML file (e.g. a single override passed on a command line or
// dropped in by a provisioning tool).
package hostconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// maxScopeConfigErrors bounds the number of diagnostics ScopeConfig.Parse
// accumulates before giving up on a file, matching
// original_source/bricksyncconf.c's own error cap.
const maxScopeConfigErrors = 16

// ScopeMember is one registered "scope.member" assignment target.
type ScopeMember struct {
	Scope, Member string
	Set           func(value string) error
}

// ScopeConfigError is one diagnostic produced while parsing a scope config
// file, carrying the 1-based source line it came from.
type ScopeConfigError struct {
	Line    int
	Message string
}

func (e *ScopeConfigError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ScopeConfig is a registry of scope.member=value targets plus the parser
// that validates and applies a config file's statements against it.
type ScopeConfig struct {
	members map[string]map[string]ScopeMember
}

// NewScopeConfig creates an empty ScopeConfig.
func NewScopeConfig() *ScopeConfig {
	return &ScopeConfig{members: make(map[string]map[string]ScopeMember)}
}

// Register adds scope.member as a valid assignment target, calling set
// with the parsed right-hand side string whenever a matching statement is
// parsed.
func (c *ScopeConfig) Register(scope, member string, set func(value string) error) {
	m, ok := c.members[scope]
	if !ok {
		m = make(map[string]ScopeMember)
		c.members[scope] = m
	}
	m[member] = ScopeMember{Scope: scope, Member: member, Set: set}
}

// Parse scans src line by line, applying every well-formed
// "scope.member = value;" statement it finds and collecting an error for
// every malformed line, unknown scope, or unknown member — up to
// maxScopeConfigErrors, after which parsing stops early (same behavior as
// the original's error-count cutoff).
func (c *ScopeConfig) Parse(src string) []error {
	var errs []error
	for i, rawLine := range strings.Split(src, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if err := c.parseLine(i+1, line); err != nil {
			errs = append(errs, err)
			if len(errs) >= maxScopeConfigErrors {
				break
			}
		}
	}
	return errs
}

func (c *ScopeConfig) parseLine(lineNo int, line string) error {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")

	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return &ScopeConfigError{Line: lineNo, Message: "expected an assignment operator '='"}
	}
	lhs := strings.TrimSpace(line[:eq])
	rhs := strings.TrimSpace(line[eq+1:])

	dot := strings.IndexByte(lhs, '.')
	if dot < 0 {
		return &ScopeConfigError{Line: lineNo, Message: "expected a '.' to enter scope"}
	}
	scope := strings.TrimSpace(lhs[:dot])
	member := strings.TrimSpace(lhs[dot+1:])
	if scope == "" {
		return &ScopeConfigError{Line: lineNo, Message: "unknown variable or scope \"\""}
	}
	if member == "" {
		return &ScopeConfigError{Line: lineNo, Message: "expected an identifier as member of scope"}
	}

	scopeMembers, ok := c.members[scope]
	if !ok {
		return &ScopeConfigError{Line: lineNo, Message: fmt.Sprintf("unknown variable or scope %q", scope)}
	}
	target, ok := scopeMembers[member]
	if !ok {
		return &ScopeConfigError{Line: lineNo, Message: fmt.Sprintf("unknown scope member %q", member)}
	}

	value, err := unquote(rhs)
	if err != nil {
		return &ScopeConfigError{Line: lineNo, Message: err.Error()}
	}
	if err := target.Set(value); err != nil {
		return &ScopeConfigError{Line: lineNo, Message: err.Error()}
	}
	return nil
}

// unquote strips a surrounding double-quote pair if present, otherwise
// returns the value unchanged (so bare integers/floats/identifiers pass
// through untouched).
func unquote(s string) (string, error) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strconv.Unquote(s)
	}
	return s, nil
}
