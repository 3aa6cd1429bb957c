package memory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// legacyFailedPrefix is the line marker the previous system used to encode
// failed agents inside a prose summary.
const legacyFailedPrefix = "Agent failed: "

// Record is the structured summary of a module's last run. The prioritizer
// consumes FailedAgents at the start of the next run; the rest is diagnostic.
type Record struct {
	BestAgent     string   `json:"best_agent"`
	BestAnswer    string   `json:"best_answer"`
	FailedAgents  []string `json:"failed_agents"`
	Reprioritized []string `json:"reprioritized,omitempty"`
}

// Encode serializes the record for storage.
func (r *Record) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode memory record: %w", err)
	}
	return string(data), nil
}

// ParseRecord decodes a stored summary. Empty content means no prior record
// and yields nil. JSON is the native format; free-text summaries written by
// the previous system are recovered by scanning for "Agent failed: <name>"
// lines. A record that matches neither format still parses, with no failed
// agents, so a garbled store never fails a run.
func ParseRecord(content string) *Record {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(content), &rec); err == nil {
		rec.FailedAgents = dedupe(rec.FailedAgents)
		return &rec
	}

	rec = Record{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := strings.CutPrefix(line, legacyFailedPrefix); ok {
			name = strings.TrimSpace(name)
			if name != "" {
				rec.FailedAgents = append(rec.FailedAgents, name)
			}
		}
	}
	rec.FailedAgents = dedupe(rec.FailedAgents)
	return &rec
}

// dedupe removes duplicates preserving first-appearance order.
func dedupe(names []string) []string {
	if len(names) == 0 {
		return names
	}
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
