// Package intel hosts the intelligence modules and the machinery that runs
// them: the failure-isolating runner, the concurrent dispatcher, and the
// report aggregator.
package intel

import (
	"context"
	"encoding/json"
	"fmt"
)

// Module names form the closed set a scan request can ask for.
const (
	ModuleDomain  = "domain"
	ModuleWeb     = "web"
	ModuleNetwork = "network"
	ModuleSocial  = "social"
	ModuleThreat  = "threat"
	ModulePerson  = "person"
)

// DomainModules are the modules a domain-target scan dispatches by default,
// in dispatch order.
var DomainModules = []string{ModuleDomain, ModuleWeb, ModuleNetwork, ModuleSocial, ModuleThreat}

// Target identifies what a module should probe. State and DOB only apply to
// person targets.
type Target struct {
	Value string
	Kind  string
	State string
	DOB   string
}

// Payload is the closed set of per-module result shapes. Each module
// produces exactly one implementation.
type Payload interface {
	ModuleName() string
}

// Module gathers one category of intelligence about a target. Collect must
// honour ctx cancellation; anything it returns or panics with stays behind
// the runner boundary.
type Module interface {
	Name() string
	Collect(ctx context.Context, target Target) (Payload, error)
}

const (
	StateOK    = "ok"
	StateError = "error"
)

// Outcome is the normalized result of one module run. Exactly one of
// Payload and Err is set.
type Outcome struct {
	Module  string
	State   string
	Payload Payload
	Err     string
}

// OK reports whether the module produced a payload.
func (o Outcome) OK() bool {
	return o.State == StateOK
}

// MarshalJSON inlines the payload for successful outcomes and an error
// object for failed ones, so the module key always carries data.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if !o.OK() {
		return json.Marshal(map[string]string{"error": o.Err})
	}
	return json.Marshal(o.Payload)
}

// Run invokes one module and converts every failure mode, error return or
// panic, into an error outcome. Nothing a module does can propagate past
// this boundary; a defective module can never abort its siblings.
func Run(ctx context.Context, m Module, target Target) (out Outcome) {
	out = Outcome{Module: m.Name()}

	defer func() {
		if r := recover(); r != nil {
			out.State = StateError
			out.Payload = nil
			out.Err = fmt.Sprintf("module panic: %v", r)
		}
	}()

	payload, err := m.Collect(ctx, target)
	if err != nil {
		out.State = StateError
		out.Err = err.Error()
		return out
	}

	out.State = StateOK
	out.Payload = payload
	return out
}
