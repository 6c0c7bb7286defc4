package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/gringotts/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
data_dir: /var/lib/vault
chain_id: vault-main
log_level: error
`), 0o600))

	cases := map[string]struct {
		path    string
		env     map[string]string
		want    *Config
		wantErr *errors.Error
	}{
		"defaults": {
			want: Default(),
		},
		"file": {
			path: file,
			want: &Config{DataDir: "/var/lib/vault", ChainID: "vault-main", LogLevel: "error"},
		},
		"environment overwrites the file": {
			path: file,
			env:  map[string]string{
				"GRINGOTTS_LOG_LEVEL":    "debug",
				"GRINGOTTS_IN_MEMORY":    "true",
				"GRINGOTTS_METRICS_FILE": "/tmp/vault.prom",
			},
			want: &Config{
				DataDir:     "/var/lib/vault",
				InMemory:    true,
				ChainID:     "vault-main",
				LogLevel:    "debug",
				MetricsFile: "/tmp/vault.prom",
			},
		},
		"missing file": {
			path:    filepath.Join(dir, "missing.yaml"),
			wantErr: errors.ErrInput,
		},
		"unknown log level": {
			env:     map[string]string{"GRINGOTTS_LOG_LEVEL": "loud"},
			wantErr: errors.ErrInput,
		},
		"invalid chain id": {
			env:     map[string]string{"GRINGOTTS_CHAIN_ID": "a"},
			wantErr: errors.ErrInput,
		},
		"not parsable environment": {
			env:     map[string]string{"GRINGOTTS_IN_MEMORY": "sometimes"},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			c, err := Load(tc.path)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, c)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	c := Default()
	c.LogLevel = "error"
	var buf bytes.Buffer
	logger, err := c.Logger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Equal(t, 0, buf.Len())
	logger.Error("shown", "height", 3)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "height=3")

	assert.Equal(t, "", (&Config{DataDir: "x", InMemory: true}).StoreDir())
	assert.Equal(t, "x", (&Config{DataDir: "x"}).StoreDir())
}
