// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPackageID = "0x00000000000000000000000000000000000000000000000000000000000000aa"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"rpc_list": ["https://rpc.example.org"],
		"package_id": "`+validPackageID+`",
		"debug_logging": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://rpc.example.org"}, cfg.RPCList)
	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, validPackageID, cfg.Package().String())

	// Unset fields take defaults.
	assert.Equal(t, DefaultRetries, cfg.Retries)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, int64(DefaultSubmitTimeout)*int64(1_000_000), cfg.SubmitTimeoutDuration().Nanoseconds())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty rpc list", body: `{"package_id": "` + validPackageID + `"}`},
		{name: "non-http rpc", body: `{"rpc_list": ["ftp://x"], "package_id": "` + validPackageID + `"}`},
		{name: "missing package id", body: `{"rpc_list": ["https://rpc.example.org"]}`},
		{name: "bad package id", body: `{"rpc_list": ["https://rpc.example.org"], "package_id": "0xzz"}`},
		{name: "bad instrument pool", body: `{"rpc_list": ["https://rpc.example.org"], "package_id": "` + validPackageID + `", "instrument_pool": "0xzz"}`},
		{name: "zero timeout", body: `{"rpc_list": ["https://rpc.example.org"], "package_id": "` + validPackageID + `", "submit_timeout_ms": 0}`},
		{name: "negative retries", body: `{"rpc_list": ["https://rpc.example.org"], "package_id": "` + validPackageID + `", "retries": -1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"rpc_list": ["https://rpc.example.org"],
		"package_id": "`+validPackageID+`"
	}`)

	override := "0x00000000000000000000000000000000000000000000000000000000000000bb"
	t.Setenv("AGORA_PACKAGE_ID", override)
	t.Setenv("AGORA_RPC_LIST", "https://a.example.org, https://b.example.org")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, override, cfg.Package().String())
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.RPCList)
}
