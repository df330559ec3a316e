// Package avbconfig loads the decode/encode policy that tunes how
// strictly the codec enforces the forward-compatibility contract around
// extension blocks.
package avbconfig

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// DecodePolicy tunes decoder strictness. The zero value is strict:
// unknown extension tags are always fatal.
type DecodePolicy struct {
	// StrictExtensions, when true or unset (the default), makes an
	// unrecognized extension-block tag a fatal ErrUnknownExtension for
	// the enclosing class, exactly as the wire contract requires. A
	// pointer so an absent YAML field is distinguishable from an
	// explicit "false"; yaml.v2 can't tell those apart for a bare bool.
	// When false, the decoder logs the tag at LogLevel, skips that
	// extension slot's value and goes on decoding the object, useful for
	// recovery tooling built on top of this core, never for round-trip
	// tests.
	StrictExtensions *bool `yaml:"strictExtensions"`

	// LogLevel selects the avblog level used for recoverable skip
	// decisions ("error", "warning", "info", "debug").
	LogLevel string `yaml:"logLevel"`
}

// Strict reports whether unknown extension tags are treated as fatal.
func (p DecodePolicy) Strict() bool {
	return p.StrictExtensions == nil || *p.StrictExtensions
}

// DefaultPolicy is the default: strict extensions, warnings logged.
func DefaultPolicy() DecodePolicy {
	return DecodePolicy{
		LogLevel: "warning",
	}
}

// NewDecodePolicy parses policyYAML and fills unset fields with
// DefaultPolicy's values.
func NewDecodePolicy(policyYAML []byte) (DecodePolicy, error) {
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(policyYAML, &policy); err != nil {
		return DecodePolicy{}, fmt.Errorf("avbconfig: could not unmarshal decode policy: %w", err)
	}
	if policy.LogLevel == "" {
		policy.LogLevel = "warning"
	}
	return policy, nil
}
