package clip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(r *Registry) []string {
	var out []string
	for _, c := range r.Queue() {
		out = append(out, c.Name)
	}
	return out
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "A", Start: 1, End: 10}))
	require.NoError(t, r.Add(Clip{Name: "B", Start: 11, End: 20, Pause: 500 * time.Millisecond}))
	require.NoError(t, r.Add(Clip{Name: "C", Start: 21, End: 30}))

	assert.Equal(t, []string{"A", "B", "C"}, names(r))
	assert.Equal(t, 3, r.Len())
}

func TestInsertAtPosition(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "A", Start: 1, End: 10}))
	require.NoError(t, r.Add(Clip{Name: "C", Start: 21, End: 30}))

	require.NoError(t, r.Insert(1, Clip{Name: "B", Start: 11, End: 20}))
	require.NoError(t, r.Insert(0, Clip{Name: "intro", Start: 1, End: 2}))

	assert.Equal(t, []string{"intro", "A", "B", "C"}, names(r))
}

func TestAddRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		at   int
		clip Clip
	}{
		{"start below one", 0, Clip{Name: "x", Start: 0, End: 5}},
		{"end beyond total", 0, Clip{Name: "x", Start: 5, End: 31}},
		{"insert beyond queue", 2, Clip{Name: "x", Start: 1, End: 5}},
		{"negative insert", -1, Clip{Name: "x", Start: 1, End: 5}},
		{"negative pause", 0, Clip{Name: "x", Start: 1, End: 5, Pause: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(30)
			err := r.Insert(tt.at, tt.clip)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestReversedRangeWithinBoundsIsAccepted(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "x", Start: 5, End: 3}))

	err := r.Add(Clip{Name: "y", Start: 5, End: 40})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, r.Len())
}

func TestAddRejectsDuplicateName(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "A", Start: 1, End: 10}))

	err := r.Add(Clip{Name: "A", Start: 2, End: 3})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, r.Len())
}

func TestGetAndAt(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "A", Start: 1, End: 10}))

	c, ok := r.Get("A")
	require.True(t, ok)
	assert.Equal(t, 10, c.End)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	c, ok = r.At(0)
	require.True(t, ok)
	assert.Equal(t, "A", c.Name)

	_, ok = r.At(1)
	assert.False(t, ok)
}

func TestRemoveEvicts(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "A", Start: 1, End: 10}))
	require.NoError(t, r.Add(Clip{Name: "B", Start: 11, End: 20}))

	removed, err := r.Remove("A")
	require.NoError(t, err)
	assert.Equal(t, "A", removed.Name)
	assert.Equal(t, []string{"B"}, names(r))

	_, err = r.Remove("A")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueueIsSnapshot(t *testing.T) {
	r := NewRegistry(30)
	require.NoError(t, r.Add(Clip{Name: "A", Start: 1, End: 10}))

	q := r.Queue()
	q[0].End = 30

	c, _ := r.Get("A")
	assert.Equal(t, 10, c.End)
}
