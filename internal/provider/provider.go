// Package provider defines the inspection provider contract and the registry
// that resolves requested provider subsets by name.
package provider

import (
	"context"

	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// Capability tags a provider's execution model.
type Capability string

const (
	CapabilityStatic     Capability = "static"
	CapabilityRuleEngine Capability = "rule-engine"
	CapabilityPolicy     Capability = "policy"
	CapabilitySemantic   Capability = "semantic"
)

// Provider is the capability interface every inspection strategy implements.
// Inspect must be total for well-formed definitions: malformed or missing
// sub-documents are treated as absent, not raised as errors. Providers are
// side-effect-free with respect to each other and safe to run concurrently
// against the same read-only definition.
type Provider interface {
	Name() string
	Capability() Capability

	// Available reports whether the provider can run in the current
	// environment. When false, the reason explains the skip (e.g. missing
	// credentials) and is distinct from a runtime error.
	Available() (bool, string)

	Inspect(ctx context.Context, def *tooldef.Definition) ([]types.Finding, error)
}

// Descriptor is a registry entry describing a registered provider.
type Descriptor struct {
	Name       string     `json:"name"`
	Capability Capability `json:"capability"`
	Available  bool       `json:"available"`
	Reason     string     `json:"reason,omitempty"`
}
