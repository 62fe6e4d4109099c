package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("alice", "user", "test-secret", "casefilehub", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyJWTToken(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "user", claims.Role)
	require.Equal(t, "casefilehub", claims.Issuer)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWTToken("alice", "user", "test-secret", "casefilehub", time.Hour)
	require.NoError(t, err)

	_, err = VerifyJWTToken(token, "other-secret")
	require.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWTToken("alice", "user", "test-secret", "casefilehub", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyJWTToken(token, "test-secret")
	require.Error(t, err)
}

func TestJWTGarbage(t *testing.T) {
	_, err := VerifyJWTToken("not.a.token", "test-secret")
	require.Error(t, err)
}
