package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidPassword(t *testing.T) {
	require.True(t, ValidPassword("Green!leaf"))
	require.True(t, ValidPassword("Aa......"))

	require.False(t, ValidPassword("Sh0rt!A"))      // 7 chars
	require.False(t, ValidPassword("alllower!aa"))  // no uppercase
	require.False(t, ValidPassword("ALLUPPER!AA"))  // no lowercase
	require.False(t, ValidPassword("NoSpecials11")) // no special
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Green!leaf", 4)
	require.NoError(t, err)
	require.True(t, VerifyPassword(hash, "Green!leaf"))
	require.False(t, VerifyPassword(hash, "Green!lead"))
}

func TestGenerateOTPShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		require.GreaterOrEqual(t, otp, "100000")
		require.LessOrEqual(t, otp, "999999")
	}
}
