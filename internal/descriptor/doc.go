// Package descriptor reads and risk-checks environment descriptor files
// (environment.yml). Field extraction is deliberately a line-oriented scan
// with section-boundary tracking, not full YAML decoding: only three fields
// are consumed and first-match/ordering semantics must be preserved.
// yaml.v3 is used only as a whole-file syntax check at strictness >= 1.
package descriptor
