package history

import (
	"testing"

	"github.com/nozo-moto/netchart/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing(3)
	for _, v := range []float64{10, 20, 30, 40} {
		r.Push(v)
	}
	assert.Equal(t, []float64{20, 30, 40}, r.Values())
	assert.Equal(t, 3, r.Len())

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, 40.0, last)
}

func TestRingNeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 60} {
		r := NewRing(capacity)
		for k := 0; k < capacity*3+1; k++ {
			r.Push(float64(k))
			require.LessOrEqual(t, r.Len(), capacity)
		}

		n := capacity*3 + 1
		want := make([]float64, 0, capacity)
		for v := n - capacity; v < n; v++ {
			want = append(want, float64(v))
		}
		assert.Equal(t, want, r.Values(), "capacity %d", capacity)
	}
}

func TestRingValuesIsCopy(t *testing.T) {
	r := NewRing(2)
	r.Push(1)
	vals := r.Values()
	vals[0] = 99
	assert.Equal(t, []float64{1}, r.Values())

	_, ok := NewRing(4).Last()
	assert.False(t, ok)
}

func TestStoreRecord(t *testing.T) {
	s := NewStore(3)
	for _, v := range []float64{10, 20, 30, 40} {
		s.Record("eth0", types.RateSample{UploadBps: v / 10, DownloadBps: v})
	}

	up, down, ok := s.Series("eth0")
	require.True(t, ok)
	assert.Equal(t, []float64{20, 30, 40}, down)
	assert.Equal(t, []float64{2, 3, 4}, up)
}

func TestStoreIndependentInterfaces(t *testing.T) {
	s := NewStore(2)
	s.Record("eth0", types.RateSample{UploadBps: 1})
	s.Record("wlan0", types.RateSample{UploadBps: 5})
	s.Record("wlan0", types.RateSample{UploadBps: 6})

	up, _, _ := s.Series("eth0")
	assert.Equal(t, []float64{1}, up)
	up, _, _ = s.Series("wlan0")
	assert.Equal(t, []float64{5, 6}, up)
	assert.Equal(t, []string{"eth0", "wlan0"}, s.Names())
}

func TestStoreDrop(t *testing.T) {
	s := NewStore(2)
	s.Record("eth0", types.RateSample{})
	require.True(t, s.Has("eth0"))

	s.Drop("eth0")
	assert.False(t, s.Has("eth0"))
	_, _, ok := s.Series("eth0")
	assert.False(t, ok)
	assert.Empty(t, s.Names())
}

func TestStoreMinimumCapacity(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, 1, s.Capacity())
}
