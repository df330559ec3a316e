package avbconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyIsStrict(t *testing.T) {
	p := DefaultPolicy()
	require.True(t, p.Strict())
	require.Equal(t, "warning", p.LogLevel)
}

func TestNewDecodePolicyEmptyYAMLKeepsDefaults(t *testing.T) {
	p, err := NewDecodePolicy(nil)
	require.NoError(t, err)
	require.True(t, p.Strict())
	require.Equal(t, "warning", p.LogLevel)
}

func TestNewDecodePolicyExplicitFalseOverridesStrict(t *testing.T) {
	p, err := NewDecodePolicy([]byte("strictExtensions: false\nlogLevel: debug\n"))
	require.NoError(t, err)
	require.False(t, p.Strict())
	require.Equal(t, "debug", p.LogLevel)
}

func TestNewDecodePolicyExplicitTrueIsStrict(t *testing.T) {
	p, err := NewDecodePolicy([]byte("strictExtensions: true\n"))
	require.NoError(t, err)
	require.True(t, p.Strict())
}

func TestNewDecodePolicyInvalidYAMLErrors(t *testing.T) {
	_, err := NewDecodePolicy([]byte("not: valid: yaml: at: all:"))
	require.Error(t, err)
}
