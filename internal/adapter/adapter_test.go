package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := MakeTLSConfig(filepath.Join(dir, "missing.pem"), "", "")
	require.ErrorContains(t, err, "failed to read CA certificate file")

	bad := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a pem"), 0o600))
	_, err = MakeTLSConfig(bad, "", "")
	require.ErrorContains(t, err, "failed to parse CA certificate")
}
