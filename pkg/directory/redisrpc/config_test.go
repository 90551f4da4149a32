package redisrpc_test

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthgate/pkg/directory/redisrpc"
)

func TestConfigDefaults(t *testing.T) {
	var cfg redisrpc.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "directory:requests", cfg.Queue)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.ReplyTTL)
	assert.Len(t, cfg.ClientOptions(), 2)
	assert.Len(t, cfg.ServerOptions(), 4)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DIRECTORY_QUEUE", "users:rpc")
	t.Setenv("DIRECTORY_WORKERS", "8")
	t.Setenv("DIRECTORY_TIMEOUT", "250ms")

	var cfg redisrpc.Config
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, "users:rpc", cfg.Queue)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
}
