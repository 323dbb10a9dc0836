package foundation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatorChainCollectsAllFailures(t *testing.T) {
	notEmpty := func(s string) ValidationResult {
		if s == "" {
			return Invalid(NewFieldError("name", "required", "must not be empty"))
		}
		return Valid()
	}
	short := func(s string) ValidationResult {
		if len(s) > 3 {
			return Invalid(NewFieldError("name", "length", "too long"))
		}
		return Valid()
	}

	chain := NewValidatorChain(notEmpty).Add(short)

	require.True(t, chain.Validate("abc").Valid)
	require.NoError(t, chain.Validate("abc").Err())

	res := chain.Validate("abcd")
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	require.EqualError(t, res.Err(), "name: too long")
}

func TestInRange(t *testing.T) {
	v := InRange("port", 0, 65535)
	require.True(t, v(6006).Valid)
	require.True(t, v(0).Valid)

	res := v(70000)
	require.False(t, res.Valid)
	require.Equal(t, "range", res.Errors[0].Code)
	require.Contains(t, res.Err().Error(), "port: 70000 out of range")
}

func TestFieldErrorWithoutField(t *testing.T) {
	require.Equal(t, "broken", NewFieldError("", "x", "broken").Error())
}
