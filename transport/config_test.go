package transport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transport.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
network = "tcp"
address = "127.0.0.1:7070"
server_id = 9
ack_timeout = "250ms"
workers = 4
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "tcp", cfg.Network)
	require.Equal(t, "127.0.0.1:7070", cfg.Address)
	require.Equal(t, uint8(9), cfg.ServerID)
	require.Equal(t, 250*time.Millisecond, cfg.AckTimeout)
	require.Equal(t, 4, cfg.Workers)

	def := DefaultConfig()
	require.Equal(t, def.RegisterTimeout, cfg.RegisterTimeout)
	require.Equal(t, def.DialTimeout, cfg.DialTimeout)
	require.Equal(t, def.MaxDialAttempts, cfg.MaxDialAttempts)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `network = "udp"`))
	require.ErrorContains(t, err, "unsupported network")

	_, err = LoadConfig(writeConfig(t, `ack_timeout = "-1s"`))
	require.ErrorContains(t, err, "ack_timeout")

	_, err = LoadConfig(writeConfig(t, `address = [1, 2]`))
	require.ErrorContains(t, err, "config parse failed")
}

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}
