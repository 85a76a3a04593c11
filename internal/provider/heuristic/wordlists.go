package heuristic

import (
	"regexp"
	"strings"
)

// Field alias lists. Checks probe every alias (top-level and under "config")
// before declaring a concept absent, since source documents express the same
// concept under several names.

func withConfig(fields ...string) []string {
	out := make([]string, 0, len(fields)*2)
	out = append(out, fields...)
	for _, f := range fields {
		out = append(out, "config."+f)
	}
	return out
}

func withRetryPolicy(fields ...string) []string {
	out := withConfig(fields...)
	for _, f := range fields {
		out = append(out, "retryPolicy."+f, "config.retryPolicy."+f)
	}
	return out
}

var (
	timeoutAliases        = withConfig("timeout", "timeoutMs", "timeout_ms", "timeoutSeconds")
	timeoutValueAliases   = withConfig("timeout", "timeoutMs", "timeout_ms")
	retryAliases          = withRetryPolicy("maxRetries", "retries", "max_retries", "retryCount", "retryLimit", "retry_limit")
	backoffAliases        = withRetryPolicy("backoff", "backoffMs", "exponentialBackoff", "backoffStrategy", "retryDelay", "retryBackoff")
	errorSchemaAliases    = []string{"errorSchema", "error_schema", "errors", "errorResponse"}
	outputSchemaAliases   = []string{"outputSchema", "output_schema", "responseSchema", "response_schema"}
	rateLimitAliases      = withConfig("rateLimit", "rate_limit", "rateLimitPerMinute", "throttle", "maxCallsPerSecond")
	versionAliases        = []string{"version", "apiVersion", "api_version", "schemaVersion"}
	observabilityAliases  = withConfig("observability", "logging", "metrics", "telemetry", "tracing", "monitoring", "instrumentation", "logger")
	authAliases           = withConfig("auth", "authentication", "credentials", "apiKey", "api_key", "token")
	validationKeywords    = []string{"pattern", "minLength", "maxLength", "minimum", "maximum", "enum", "format", "minItems", "maxItems"}
	errorCodeProperties   = []string{"code", "errorCode"}
	genericWords          = map[string]bool{"tool": true, "utility": true, "helper": true, "function": true, "method": true}
	idempotencyPhrases    = []string{"idempotent", "idempotency", "safe to retry", "can be retried", "duplicate", "repeat"}
	circularityPhrases    = []string{"calls itself", "recursive", "loop", "repeat until"}
	// Word lists match on token prefixes so inflected forms still count
	// ("creates", "removes"), while token starts stay anchored ("many" must
	// not match "any").
	overloadWordRe        = regexp.MustCompile(`(?i)\b(any|all|everything|anything|whatever)\b`)
	actionVerbRe          = regexp.MustCompile(`(?i)\b(create|read|write|update|delete|get|set|fetch|send|post|put|patch|remove|add|list|find|search|query|execute|run|start|stop|restart|pause|resume|cancel|retry)\w*`)
	resourceWordRe        = regexp.MustCompile(`(?i)\b(connection|file|stream|socket|handle|session|lock|transaction|database|network)\w*`)
	cleanupWordRe         = regexp.MustCompile(`(?i)\b(close|cleanup|release|dispose|free|disconnect)\w*`)
	stateChangingVerbRe   = regexp.MustCompile(`(?i)\b(create|delete|update|modify|remove|insert|write|post|put|patch|drop|truncate)\w*`)
	dangerousWordRe       = regexp.MustCompile(`(?i)\b(delete|drop|truncate|exec|eval|rm|remove|destroy|purge|wipe)\w*`)
	externalServiceWordRe = regexp.MustCompile(`(?i)\b(api|service|endpoint|http|rest|request|external|remote|third-party|cloud|server)\w*`)
)

// maxActionVerbs is the distinct action verb count above which a description
// indicates an overloaded tool scope.
const maxActionVerbs = 5

// minDescriptionLength is the character threshold below which a description
// counts as vague.
const minDescriptionLength = 20

// distinctMatches returns the lowercased distinct list-word matches of re in
// text. The capture group holds the list word itself, so "create" and
// "creates" count as one match.
func distinctMatches(re *regexp.Regexp, text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		word := m[0]
		if len(m) > 1 && m[1] != "" {
			word = m[1]
		}
		word = strings.ToLower(word)
		if !seen[word] {
			seen[word] = true
			out = append(out, word)
		}
	}
	return out
}

// containsToken reports whether needle appears in text as a whole token, not
// as a substring of a longer word ("fetch" must not match "fetches").
func containsToken(text, needle string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	if err != nil {
		return strings.Contains(text, needle)
	}
	return re.MatchString(text)
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
