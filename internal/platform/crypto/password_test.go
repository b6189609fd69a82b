package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name      string
		passwords []string
		want      error
	}{
		{"valid", []string{"Test123!@#", "Password1$", "SecureP@ss1", "Str0ng#Pass", "Valid123!"}, nil},
		{"too short", []string{"Test1!", "Pass1", "Abc12"}, ErrPasswordTooShort},
		{"no upper case", []string{"test123!@#", "password1$"}, ErrPasswordNoUpper},
		{"no lower case", []string{"TEST123!@#", "PASSWORD1$"}, ErrPasswordNoLower},
		{"no number", []string{"TestPass!@#", "Password$"}, ErrPasswordNoNumber},
		{"no special character", []string{"TestPass123", "Password1"}, ErrPasswordNoSpecialChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range tt.passwords {
				assert.Equal(t, tt.want, ValidatePasswordStrength(p), "password %q", p)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, password))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "wrongpassword"))
	})

	t.Run("different hash each time", func(t *testing.T) {
		hash2, err := HashPassword(password)
		require.NoError(t, err)
		assert.NotEqual(t, hash, hash2)
		assert.True(t, VerifyPassword(hash2, password))
	})
}
