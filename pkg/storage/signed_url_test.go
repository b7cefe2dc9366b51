package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("download-secret", time.Hour)
	token, expiresAt, err := signer.Generate("report-1", "stock-metrics-report-1.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	jobID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "report-1", jobID)
	require.Equal(t, "stock-metrics-report-1.csv", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("download-secret", time.Millisecond*10)
	token, _, err := signer.Generate("report-1", "stock-metrics-report-1.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	// Cleanup routines still need to resolve the path behind an expired token.
	jobID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "report-1", jobID)
	require.Equal(t, "stock-metrics-report-1.csv", path)
}

func TestSignedURLSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("download-secret", time.Hour)
	token, _, err := signer.Generate("report-1", "stock-metrics-report-1.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 4)
	parts[0] = "report-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.Error(t, err)
}

func TestSignedURLSignerRejectsForeignSecret(t *testing.T) {
	signer := NewSignedURLSigner("download-secret", time.Hour)
	other := NewSignedURLSigner("another-secret", time.Hour)

	token, _, err := other.Generate("report-1", "stock-metrics-report-1.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)
}

func TestSignedURLSignerRequiresInput(t *testing.T) {
	signer := NewSignedURLSigner("download-secret", time.Hour)
	_, _, err := signer.Generate("", "stock-metrics-report-1.csv")
	require.Error(t, err)

	_, _, err = signer.Generate("report-1", "")
	require.Error(t, err)

	_, _, _, err = signer.Parse("not-a-token", false)
	require.Error(t, err)
}
