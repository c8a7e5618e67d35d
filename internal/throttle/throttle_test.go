package throttle

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemory_BlocksAfterMaxFailures(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	th := NewMemory(3, time.Minute, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := th.Blocked(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		require.False(t, blocked, "attempt %d should not be blocked", i+1)
		require.NoError(t, th.Fail(ctx, "ip:1.2.3.4"))
	}
	blocked, _ := th.Blocked(ctx, "ip:1.2.3.4")
	require.True(t, blocked)

	// other keys are independent
	blocked, _ = th.Blocked(ctx, "ip:5.6.7.8")
	require.False(t, blocked)

	// window elapses
	now = now.Add(time.Minute)
	blocked, _ = th.Blocked(ctx, "ip:1.2.3.4")
	require.False(t, blocked)
}

func TestMemory_ResetClearsFailures(t *testing.T) {
	th := NewMemory(1, time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, th.Fail(ctx, "k"))
	blocked, _ := th.Blocked(ctx, "k")
	require.True(t, blocked)
	require.NoError(t, th.Reset(ctx, "k"))
	blocked, _ = th.Blocked(ctx, "k")
	require.False(t, blocked)
}

func TestRedis_FixedWindow(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	th := NewRedis(redis.NewClient(&redis.Options{Addr: m.Addr()}), 2, 10*time.Second)
	ctx := context.Background()

	blocked, err := th.Blocked(ctx, "ip:x")
	require.NoError(t, err)
	require.False(t, blocked)

	require.NoError(t, th.Fail(ctx, "ip:x"))
	require.NoError(t, th.Fail(ctx, "ip:x"))
	blocked, err = th.Blocked(ctx, "ip:x")
	require.NoError(t, err)
	require.True(t, blocked)
	require.True(t, m.TTL("login:fail:ip:x") > 0)

	m.FastForward(11 * time.Second)
	blocked, err = th.Blocked(ctx, "ip:x")
	require.NoError(t, err)
	require.False(t, blocked)

	require.NoError(t, th.Fail(ctx, "ip:x"))
	require.NoError(t, th.Reset(ctx, "ip:x"))
	require.False(t, m.Exists("login:fail:ip:x"))
}

func TestNew_SelectsImplementation(t *testing.T) {
	require.IsType(t, Disabled{}, New(nil, 0, time.Minute))
	require.IsType(t, &Memory{}, New(nil, 5, time.Minute))

	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	require.IsType(t, &Redis{}, New(redis.NewClient(&redis.Options{Addr: m.Addr()}), 5, time.Minute))
}
