package command

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSExecutor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	e := &OSExecutor{}

	t.Run("stdout only", func(t *testing.T) {
		out, err := e.Execute(context.Background(), "sh", "-c", `echo '{"nodes":{}}'; echo noise >&2`)
		require.NoError(t, err)
		assert.Equal(t, "{\"nodes\":{}}\n", string(out))
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		_, err := e.Execute(context.Background(), "sh", "-c", "echo 'pbsnodes: Server has no node list' >&2; exit 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Server has no node list")
	})

	t.Run("missing executable", func(t *testing.T) {
		_, err := e.Execute(context.Background(), "cluster-info-no-such-command")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := e.ExecuteWithTimeout(context.Background(), 50*time.Millisecond, "sleep", "5")
		assert.Error(t, err)
	})
}
