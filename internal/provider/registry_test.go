package provider_test

import (
	"context"
	"testing"

	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name      string
	available bool
	reason    string
}

func (f *fakeProvider) Name() string                    { return f.name }
func (f *fakeProvider) Capability() provider.Capability { return provider.CapabilityStatic }
func (f *fakeProvider) Available() (bool, string)       { return f.available, f.reason }

func (f *fakeProvider) Inspect(ctx context.Context, def *tooldef.Definition) ([]types.Finding, error) {
	return nil, nil
}

func TestRegistryList(t *testing.T) {
	reg := provider.NewRegistry(
		&fakeProvider{name: "heuristic", available: true},
		&fakeProvider{name: "semantic", available: false, reason: "no API key configured"},
	)

	descs := reg.List()
	require.Len(t, descs, 2)
	require.Equal(t, "heuristic", descs[0].Name)
	require.True(t, descs[0].Available)
	require.False(t, descs[1].Available)
	require.Equal(t, "no API key configured", descs[1].Reason)
}

func TestResolveOrderPreservingCaseNormalizing(t *testing.T) {
	reg := provider.NewRegistry(
		&fakeProvider{name: "heuristic", available: true},
		&fakeProvider{name: "pattern-rule", available: true},
		&fakeProvider{name: "policy", available: true},
	)

	resolved, unknown := reg.Resolve([]string{"Policy", " HEURISTIC "})
	require.Empty(t, unknown)
	require.Len(t, resolved, 2)
	require.Equal(t, "policy", resolved[0].Name())
	require.Equal(t, "heuristic", resolved[1].Name())
}

func TestResolveReportsUnknownNames(t *testing.T) {
	reg := provider.NewRegistry(&fakeProvider{name: "heuristic", available: true})

	resolved, unknown := reg.Resolve([]string{"heuristic", "yara", "opa"})
	require.Len(t, resolved, 1)
	require.Equal(t, []string{"yara", "opa"}, unknown)
}

func TestResolveEmptyDefaultsToAll(t *testing.T) {
	reg := provider.NewRegistry(
		&fakeProvider{name: "a", available: true},
		&fakeProvider{name: "b", available: false},
	)

	resolved, unknown := reg.Resolve(nil)
	require.Empty(t, unknown)
	require.Len(t, resolved, 2)
	require.Equal(t, "a", resolved[0].Name())
}
