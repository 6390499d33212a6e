package pgtypes

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamptz(t *testing.T) {
	t.Parallel()

	assert.False(t, Timestamptz(nil).Valid)
	assert.Nil(t, TimePtr(Timestamptz(nil)))

	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 2, 1, 12, 0, 0, 0, loc)

	ts := Timestamptz(&in)
	require.True(t, ts.Valid)
	assert.Equal(t, time.UTC, ts.Time.Location())

	out := TimePtr(ts)
	require.NotNil(t, out)
	assert.True(t, in.Equal(*out))
}

func TestUUID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got := UUID(id)
	assert.True(t, got.Valid)
	assert.Equal(t, [16]byte(id), got.Bytes)
}
