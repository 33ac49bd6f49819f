package perf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudposse/capnp-import/pkg/schema"
)

func TestTrack_DisabledRecordsNothing(t *testing.T) {
	Reset()
	EnableTracking(false)

	Track(nil, "disabled.Func")()

	assert.Empty(t, TakeSnapshot(0).Rows)
}

func TestTrack_EnabledByConfig(t *testing.T) {
	Reset()
	EnableTracking(false)
	cfg := &schema.Configuration{Profile: schema.Profile{Enabled: true}}

	Track(cfg, "config.Func")()

	snap := TakeSnapshot(0)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "config.Func", snap.Rows[0].Name)
	assert.Equal(t, int64(1), snap.Rows[0].Count)
}

func TestTakeSnapshot_SortedAndLimited(t *testing.T) {
	Reset()
	EnableTracking(true)
	defer EnableTracking(false)

	record("fast", time.Millisecond)
	record("slow", 10*time.Millisecond)
	record("slow", 20*time.Millisecond)
	record("medium", 5*time.Millisecond)

	snap := TakeSnapshot(2)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "slow", snap.Rows[0].Name)
	assert.Equal(t, int64(2), snap.Rows[0].Count)
	assert.Equal(t, 30*time.Millisecond, snap.Rows[0].Total)
	assert.Equal(t, 15*time.Millisecond, snap.Rows[0].Avg)
	assert.Equal(t, 20*time.Millisecond, snap.Rows[0].Max)
	assert.InDelta(t, float64(20*time.Millisecond), float64(snap.Rows[0].P95), float64(100*time.Microsecond))
	assert.Equal(t, "medium", snap.Rows[1].Name)
}

func TestWriteReport(t *testing.T) {
	Reset()
	record("pipeline.Run", 3*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, TakeSnapshot(0)))

	out := buf.String()
	assert.Contains(t, out, "Function")
	assert.Contains(t, out, "pipeline.Run")
	assert.Contains(t, out, "Elapsed:")
}
