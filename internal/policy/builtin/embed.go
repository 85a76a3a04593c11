// Package builtin embeds the YAML policy documents via go:embed.
package builtin

import "embed"

//go:embed *.yaml
var builtinPolicies embed.FS

// FS returns the embedded filesystem containing built-in policies.
func FS() embed.FS {
	return builtinPolicies
}
