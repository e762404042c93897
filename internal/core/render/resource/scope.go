// Package resource owns every GPU-resident asset of the renderer, grouped by
// the lifetime domain it was allocated under.
package resource

import (
	"fmt"
	"strings"
)

// Scope is a lifetime domain. Assets allocated under a scope live until that
// scope is torn down.
type Scope uint8

const (
	ScopeGlobal Scope = iota
	ScopeMenu
	ScopeGame

	scopeCount
)

// Scopes lists every scope in teardown-safe order: the short-lived domains
// first, Global last.
var Scopes = []Scope{ScopeGame, ScopeMenu, ScopeGlobal}

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeMenu:
		return "menu"
	case ScopeGame:
		return "game"
	}
	return fmt.Sprintf("scope(%d)", uint8(s))
}

func (s Scope) Valid() bool { return s < scopeCount }

func ParseScope(v string) (Scope, error) {
	switch strings.ToLower(v) {
	case "global":
		return ScopeGlobal, nil
	case "menu":
		return ScopeMenu, nil
	case "game":
		return ScopeGame, nil
	}
	return 0, fmt.Errorf("unknown resource scope %q", v)
}
