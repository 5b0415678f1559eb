package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/plan-conflicts-api/pkg/config"
)

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	require.Nil(t, client)
}

func TestKey(t *testing.T) {
	require.Equal(t, "plan-conflicts:conflicts:matrix:sp2026", Key("conflicts", "matrix", "", "sp2026"))
	require.Equal(t, "plan-conflicts:a|b", Key("a:b"))
}
