// Package heuristic implements the in-process inspection provider: a fixed
// ordered catalogue of 20 operational readiness checks (HEUR-001..HEUR-020)
// over a tool definition. Checks are pure predicates with no I/O; each emits
// at most one finding.
package heuristic

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nik-kale/mcp-readiness-scanner/internal/provider"
	"github.com/nik-kale/mcp-readiness-scanner/internal/tooldef"
	"github.com/nik-kale/mcp-readiness-scanner/internal/types"
)

// ProviderName is the registry name of the heuristic provider.
const ProviderName = "heuristic"

// maxTimeoutMs is the threshold above which a timeout counts as too long.
const maxTimeoutMs = 300000

// maxRetries is the threshold above which a retry limit counts as excessive.
const maxRetries = 10

// check is one catalogue entry. The predicate returns the finding message,
// remediation, and location when it fires.
type check struct {
	id       string
	name     string
	severity types.Severity
	category types.Category
	fn       func(def *tooldef.Definition) (msg, remediation, location string, ok bool)
}

// Info describes a catalogue entry for rule listings and report catalogues.
type Info struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Severity types.Severity `json:"severity"`
	Category types.Category `json:"category"`
}

// Provider runs the heuristic check catalogue.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string                    { return ProviderName }
func (p *Provider) Capability() provider.Capability { return provider.CapabilityStatic }
func (p *Provider) Available() (bool, string)       { return true, "" }

func (p *Provider) Inspect(ctx context.Context, def *tooldef.Definition) ([]types.Finding, error) {
	var findings []types.Finding
	for _, c := range catalogue {
		if ctx.Err() != nil {
			return findings, ctx.Err()
		}
		msg, remediation, location, ok := c.fn(def)
		if !ok {
			continue
		}
		findings = append(findings, types.Finding{
			RuleID:      c.id,
			RuleName:    c.name,
			Severity:    c.severity,
			Category:    c.category,
			Message:     msg,
			Remediation: remediation,
			Provider:    ProviderName,
			Location:    location,
		})
	}
	return findings, nil
}

// Catalogue returns the check metadata in catalogue order.
func Catalogue() []Info {
	infos := make([]Info, len(catalogue))
	for i, c := range catalogue {
		infos[i] = Info{ID: c.id, Name: c.name, Severity: c.severity, Category: c.category}
	}
	return infos
}

var catalogue = []check{
	// Timeout guards
	{"HEUR-001", "No timeout configuration", types.SeverityHigh, types.CategoryMissingTimeoutGuard, checkMissingTimeout},
	{"HEUR-002", "Invalid or excessive timeout", types.SeverityMedium, types.CategoryMissingTimeoutGuard, checkTimeoutValue},
	// Retry configuration
	{"HEUR-003", "No retry limit configured", types.SeverityMedium, types.CategoryUnsafeRetryLoop, checkNoRetryLimit},
	{"HEUR-004", "Unlimited or excessive retries", types.SeverityHigh, types.CategoryUnsafeRetryLoop, checkRetryValue},
	{"HEUR-005", "No backoff strategy for retries", types.SeverityLow, types.CategoryUnsafeRetryLoop, checkNoBackoff},
	// Error handling
	{"HEUR-006", "No error response schema", types.SeverityMedium, types.CategoryMissingErrorSchema, checkMissingErrorSchema},
	{"HEUR-007", "Error schema missing error code", types.SeverityLow, types.CategoryMissingErrorSchema, checkErrorSchemaCode},
	{"HEUR-008", "No output schema defined", types.SeverityLow, types.CategoryMissingErrorSchema, checkNoOutputSchema},
	// Description quality
	{"HEUR-009", "Vague or missing description", types.SeverityMedium, types.CategoryOverloadedToolScope, checkVagueDescription},
	{"HEUR-010", "Overloaded tool scope", types.SeverityHigh, types.CategoryOverloadedToolScope, checkOverloadedScope},
	// Input validation
	{"HEUR-011", "No required input fields", types.SeverityLow, types.CategorySilentFailurePath, checkNoRequiredFields},
	{"HEUR-012", "Missing input validation hints", types.SeverityInfo, types.CategorySilentFailurePath, checkNoValidationHints},
	// Operational config
	{"HEUR-013", "No rate limit configuration", types.SeverityLow, types.CategoryUnsafeRetryLoop, checkNoRateLimit},
	{"HEUR-014", "No version information", types.SeverityLow, types.CategoryNoObservabilityHooks, checkNoVersion},
	{"HEUR-015", "No observability configuration", types.SeverityLow, types.CategoryNoObservabilityHooks, checkNoObservability},
	// Resource management
	{"HEUR-016", "Resource cleanup not documented", types.SeverityMedium, types.CategorySilentFailurePath, checkResourceCleanup},
	{"HEUR-017", "No idempotency indication", types.SeverityInfo, types.CategoryNonDeterministicResponse, checkIdempotency},
	// Safety
	{"HEUR-018", "Dangerous operation keywords", types.SeverityHigh, types.CategoryOverloadedToolScope, checkDangerousKeywords},
	{"HEUR-019", "No authentication context", types.SeverityInfo, types.CategorySilentFailurePath, checkAuthContext},
	{"HEUR-020", "Circular dependency risk", types.SeverityMedium, types.CategoryUnsafeRetryLoop, checkCircularDependency},
}

func toolLoc(def *tooldef.Definition, suffix string) string {
	loc := "tool." + def.Name()
	if suffix != "" {
		loc += "." + suffix
	}
	return loc
}

func checkMissingTimeout(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(timeoutAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q does not specify a timeout. Operations may hang indefinitely if external services become unresponsive.", def.Name()),
		"Add a 'timeout' or 'timeoutMs' field with a reasonable value (e.g. 30000 for 30 seconds)",
		toolLoc(def, ""), true
}

func checkTimeoutValue(def *tooldef.Definition) (string, string, string, bool) {
	path, value, ok := def.Number(timeoutValueAliases...)
	if !ok {
		return "", "", "", false
	}
	switch {
	case value <= 0:
		return fmt.Sprintf("Tool %q has an invalid timeout of %v (zero or negative). The guard is effectively disabled.", def.Name(), value),
			"Set a positive timeout value (e.g. 30000 for 30 seconds)",
			toolLoc(def, path), true
	case value > maxTimeoutMs:
		return fmt.Sprintf("Tool %q has %s=%v (over 5 minutes). Long timeouts cause extended hangs during outages.", def.Name(), path, value),
			"Consider reducing the timeout to 30-60 seconds",
			toolLoc(def, path), true
	}
	return "", "", "", false
}

func checkNoRetryLimit(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(retryAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q does not specify a retry limit. Unbounded retry logic can exhaust resources or loop forever.", def.Name()),
		"Add a 'maxRetries' or 'retryLimit' field with a reasonable value (e.g. 3)",
		toolLoc(def, ""), true
}

func checkRetryValue(def *tooldef.Definition) (string, string, string, bool) {
	path, value, ok := def.Number(retryAliases...)
	if !ok {
		return "", "", "", false
	}
	switch {
	case value == -1:
		return fmt.Sprintf("Tool %q has %s=-1, indicating unlimited retries. This can cause infinite loops and resource exhaustion.", def.Name(), path),
			"Set a finite retry limit (recommended: 3-5 retries)",
			toolLoc(def, path), true
	case value > maxRetries:
		return fmt.Sprintf("Tool %q has %s=%v. Very high retry limits cause extended delays during outages.", def.Name(), path, value),
			"Consider reducing the retry limit to 3-5",
			toolLoc(def, path), true
	}
	return "", "", "", false
}

func checkNoBackoff(def *tooldef.Definition) (string, string, string, bool) {
	if !def.Has(retryAliases...) || def.Has(backoffAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q has retry logic but no backoff strategy. Rapid retries can overwhelm failing services.", def.Name()),
		"Add backoff configuration (e.g. 'backoffMs' or 'exponentialBackoff') to avoid thundering herds",
		toolLoc(def, ""), true
}

func checkMissingErrorSchema(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(errorSchemaAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q does not define an error response schema. Agents cannot programmatically handle failures without structured errors.", def.Name()),
		"Add an 'errorSchema' field defining error codes and messages",
		toolLoc(def, ""), true
}

func checkErrorSchemaCode(def *tooldef.Definition) (string, string, string, bool) {
	path, schema, ok := def.Object(errorSchemaAliases...)
	if !ok {
		return "", "", "", false
	}
	props, _ := schema["properties"].(map[string]any)
	for _, key := range errorCodeProperties {
		if _, ok := props[key]; ok {
			return "", "", "", false
		}
	}
	return fmt.Sprintf("Tool %q has an error schema without a 'code' or 'errorCode' property. Error codes are essential for programmatic handling.", def.Name()),
		"Add a 'code' property to the error schema (e.g. a string enum of error codes)",
		toolLoc(def, path+".properties"), true
}

func checkNoOutputSchema(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(outputSchemaAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q does not define an output schema. Agents cannot reliably parse responses without knowing their structure.", def.Name()),
		"Add an 'outputSchema' field defining the structure of successful responses",
		toolLoc(def, ""), true
}

func checkVagueDescription(def *tooldef.Definition) (string, string, string, bool) {
	desc := def.Description()
	loc := toolLoc(def, "description")
	if desc == "" {
		return fmt.Sprintf("Tool %q has no description. Agents rely on descriptions to select the appropriate tool.", def.Name()),
			"Add a clear, detailed description explaining what the tool does",
			loc, true
	}
	if n := utf8.RuneCountInString(desc); n < minDescriptionLength {
		return fmt.Sprintf("Tool %q has a very short description (%d characters, minimum %d recommended).", def.Name(), n, minDescriptionLength),
			"Expand the description to explain the tool's purpose, inputs, and expected outputs",
			loc, true
	}
	nonGeneric := 0
	for _, w := range strings.Fields(strings.ToLower(desc)) {
		if !genericWords[strings.Trim(w, ".,;:!?")] {
			nonGeneric++
		}
	}
	if nonGeneric < 3 {
		return fmt.Sprintf("Tool %q description contains only generic words.", def.Name()),
			"Replace generic terms with specific details about functionality",
			loc, true
	}
	return "", "", "", false
}

func checkOverloadedScope(def *tooldef.Definition) (string, string, string, bool) {
	desc := def.Description()
	loc := toolLoc(def, "description")
	if overload := distinctMatches(overloadWordRe, desc); len(overload) > 0 {
		return fmt.Sprintf("Tool %q description contains scope-overload keywords: %s. Tools that do everything are difficult to test and use reliably.", def.Name(), strings.Join(overload, ", ")),
			"Split into multiple focused tools, each with a specific, well-defined purpose",
			loc, true
	}
	if verbs := distinctMatches(actionVerbRe, desc); len(verbs) > maxActionVerbs {
		return fmt.Sprintf("Tool %q description mentions %d action verbs (%s, ...). Tools with many capabilities are harder to test, secure, and maintain.", def.Name(), len(verbs), strings.Join(verbs[:maxActionVerbs], ", ")),
			"Consider splitting into multiple focused tools with specific responsibilities",
			loc, true
	}
	return "", "", "", false
}

func checkNoRequiredFields(def *tooldef.Definition) (string, string, string, bool) {
	_, schema, ok := def.Object("inputSchema")
	if !ok {
		return "", "", "", false
	}
	props, _ := schema["properties"].(map[string]any)
	required, _ := schema["required"].([]any)
	if len(props) == 0 || len(required) > 0 {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q has an input schema with %d properties but no required fields. Missing inputs surface as runtime errors instead of validation errors.", def.Name(), len(props)),
		"Add a 'required' array listing mandatory input fields",
		toolLoc(def, "inputSchema.required"), true
}

func checkNoValidationHints(def *tooldef.Definition) (string, string, string, bool) {
	_, schema, ok := def.Object("inputSchema")
	if !ok {
		return "", "", "", false
	}
	props, _ := schema["properties"].(map[string]any)
	if len(props) == 0 {
		return "", "", "", false
	}
	unvalidated := 0
	for _, propDef := range props {
		pd, ok := propDef.(map[string]any)
		if !ok {
			unvalidated++
			continue
		}
		hasValidation := false
		for _, kw := range validationKeywords {
			if _, ok := pd[kw]; ok {
				hasValidation = true
				break
			}
		}
		if !hasValidation {
			unvalidated++
		}
	}
	if unvalidated*2 < len(props) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q input schema has %d of %d properties without validation constraints (pattern, minLength, enum, ...). Invalid inputs may pass through.", def.Name(), unvalidated, len(props)),
		"Add validation constraints to input properties (pattern for strings, minimum/maximum for numbers, enum for choices)",
		toolLoc(def, "inputSchema.properties"), true
}

func checkNoRateLimit(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(rateLimitAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q does not specify rate limits. Rapid repeated calls may overwhelm external services.", def.Name()),
		"Add a 'rateLimit' field specifying maximum calls per time period",
		toolLoc(def, ""), true
}

func checkNoVersion(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(versionAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q does not specify a version. Versioning tracks changes and compatibility as tools evolve.", def.Name()),
		"Add a 'version' field (e.g. '1.0.0') following semantic versioning",
		toolLoc(def, ""), true
}

func checkNoObservability(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(observabilityAliases...) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q configures no observability hooks (logging, metrics, tracing). Production issues become very hard to debug.", def.Name()),
		"Add logging, metrics, or tracing configuration",
		toolLoc(def, ""), true
}

func checkResourceCleanup(def *tooldef.Definition) (string, string, string, bool) {
	desc := def.Description()
	resources := distinctMatches(resourceWordRe, desc)
	if len(resources) == 0 || cleanupWordRe.MatchString(desc) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q appears to use resources (%s) but does not document cleanup. Resource leaks cause production instability.", def.Name(), strings.Join(resources, ", ")),
		"Document how resources are released (e.g. 'connections are closed automatically')",
		toolLoc(def, "description"), true
}

func checkIdempotency(def *tooldef.Definition) (string, string, string, bool) {
	desc := strings.ToLower(def.Description())
	if !stateChangingVerbRe.MatchString(desc) || containsAnyPhrase(desc, idempotencyPhrases) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q appears to perform state-changing operations but does not indicate whether it is idempotent. Retries of non-idempotent operations may create duplicates.", def.Name()),
		"Document whether the operation is idempotent and safe to retry",
		toolLoc(def, "description"), true
}

func checkDangerousKeywords(def *tooldef.Definition) (string, string, string, bool) {
	combined := def.Name() + " " + def.Description()
	dangerous := distinctMatches(dangerousWordRe, combined)
	if len(dangerous) == 0 {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q contains dangerous operation keywords: %s. Destructive operations require extra safeguards.", def.Name(), strings.Join(dangerous, ", ")),
		"Add safeguards: explicit confirmation, dry-run mode, audit logging, or rollback mechanisms",
		toolLoc(def, ""), true
}

func checkAuthContext(def *tooldef.Definition) (string, string, string, bool) {
	if def.Has(authAliases...) || !externalServiceWordRe.MatchString(def.Description()) {
		return "", "", "", false
	}
	return fmt.Sprintf("Tool %q appears to interact with external services but documents no authentication requirements. Authorization failures will surface at runtime.", def.Name()),
		"Document authentication requirements (e.g. an 'auth' field or required credentials)",
		toolLoc(def, ""), true
}

func checkCircularDependency(def *tooldef.Definition) (string, string, string, bool) {
	desc := strings.ToLower(def.Description())
	loc := toolLoc(def, "description")
	if name := strings.ToLower(def.Name()); name != "" && containsToken(desc, name) {
		return fmt.Sprintf("Tool %q references itself in its description. Self-referencing tools can cause infinite loops in agent workflows.", def.Name()),
			"Ensure the tool does not call itself recursively; add depth limits if recursion is required",
			loc, true
	}
	if containsAnyPhrase(desc, circularityPhrases) {
		return fmt.Sprintf("Tool %q description mentions looping or recursive behavior. Ensure proper termination conditions.", def.Name()),
			"Add explicit termination conditions, iteration caps, or depth limits",
			loc, true
	}
	return "", "", "", false
}
