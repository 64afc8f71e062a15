package argocd

import (
	"encoding/json"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Outcome holds the structured fields scraped from the CLI's JSON output.
// Every field except RawOutput is optional: absence in the input simply leaves
// the field empty. RawOutput is preserved unconditionally so callers can debug
// or post-process output the schema mapping missed.
type Outcome struct {
	// SyncStatus is the synchronization status reported by ArgoCD, such as
	// "Synced" or "OutOfSync".
	SyncStatus string
	// HealthStatus is the application health, such as "Healthy" or "Degraded".
	HealthStatus string
	// Revision is the Git commit SHA the application ended up syncing to.
	Revision string
	// Resources carries the per-resource status maps untouched; no schema is
	// imposed on individual entries.
	Resources []map[string]any
	// Conditions carries application condition maps (warnings, errors)
	// untouched. Only `argocd app get` output populates these.
	Conditions []map[string]any
	// RawOutput is the trimmed CLI output, parsed or not.
	RawOutput string
	// Parsed reports whether the output decoded as JSON. When false all
	// structured fields are empty and only RawOutput is meaningful.
	Parsed bool
}

// ExtractJSON locates an embedded JSON object in free-form CLI output by
// spanning the first '{' to the last '}'. This tolerates banners, warnings,
// and log noise around the payload, at the cost of being fooled by stray
// braces in unrelated text; for a noisy CLI wrapper that trade-off beats
// strict JSON-only parsing.
func ExtractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return "", false
	}

	return raw[start : end+1], true
}

// ParseOutcome decodes CLI output into an Outcome. Extraction or decode
// failure is not an error: the Outcome degrades to raw text only, and the
// caller decides whether to log a warning. Identical input always yields an
// identical Outcome.
func ParseOutcome(raw string) Outcome {
	outcome := Outcome{RawOutput: strings.TrimSpace(raw)}

	payload, ok := ExtractJSON(outcome.RawOutput)
	if !ok {
		return outcome
	}

	var result map[string]any

	err := json.Unmarshal([]byte(payload), &result)
	if err != nil {
		return outcome
	}

	outcome.Parsed = true

	outcome.SyncStatus = nestedString(result, "status", "sync", "status")
	outcome.HealthStatus = nestedString(result, "status", "health", "status")
	outcome.Revision = nestedString(result, "status", "sync", "revision")
	outcome.Resources = nestedMapSlice(result, "status", "resources")
	outcome.Conditions = nestedMapSlice(result, "status", "conditions")

	return outcome
}

func nestedString(obj map[string]any, fields ...string) string {
	value, found, err := unstructured.NestedString(obj, fields...)
	if err != nil || !found {
		return ""
	}

	return value
}

func nestedMapSlice(obj map[string]any, fields ...string) []map[string]any {
	values, found, err := unstructured.NestedSlice(obj, fields...)
	if err != nil || !found {
		return nil
	}

	entries := make([]map[string]any, 0, len(values))

	for _, value := range values {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil
	}

	return entries
}
