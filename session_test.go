package ski

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, expr string) *Session {
	s, err := NewSession(DefaultConfig(), expr)
	require.NoError(t, err)
	return s
}

func TestSessionAddMode(t *testing.T) {
	t.Parallel()

	s := newSession(t, "a")
	assert.Equal(t, ModeAdd, s.Mode())
	assert.Equal(t, "Click on a flower to split it in two", s.Hint())

	root := s.Root()
	changed, err := s.Click(root)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "(xx)", s.Expression())
	assert.Equal(t, root, s.Root())

	// Internal nodes cannot be split.
	changed, err = s.Click(root)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSessionRemoveMode(t *testing.T) {
	t.Parallel()

	s := newSession(t, "(S(KK))")
	s.SetMode(ModeRemove)
	assert.Equal(t, "remove", s.Mode().String())

	snap := s.Snapshot()
	assert.Equal(t, "(S(KK))", snap.String())

	changed, err := s.Click(s.Root())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "", s.Expression())
}

func TestSessionEditMode(t *testing.T) {
	t.Parallel()

	s := newSession(t, "(xy)")
	s.SetMode(ModeEdit)

	changed, err := s.Key("S")
	require.NoError(t, err)
	assert.False(t, changed, "no leaf selected yet")

	tr := s.Snapshot()
	require.Equal(t, "(xy)", tr.String())

	// Clicking the root pair selects nothing.
	_, err = s.Click(s.Root())
	require.NoError(t, err)
	assert.True(t, s.Selected().IsNil())
}

func TestSessionRename(t *testing.T) {
	t.Parallel()

	s := newSession(t, "a")
	s.SetMode(ModeEdit)
	_, err := s.Click(s.Root())
	require.NoError(t, err)
	assert.Equal(t, s.Root(), s.Selected())

	changed, err := s.Key("K")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.Key("I")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "I", s.Expression())

	s.SetMode(ModePlay)
	assert.True(t, s.Selected().IsNil())
}

func TestSessionPlayAndStep(t *testing.T) {
	t.Parallel()

	s := newSession(t, "(((SK)K)I)")
	s.SetMode(ModePlay)

	changed, err := s.Click(s.Root())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "((KI)(KI))", s.Expression())

	assert.True(t, s.Step())
	assert.Equal(t, "I", s.Expression())
	assert.False(t, s.Step())

	changed, err = s.Click(s.Root())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSessionLoadAndClear(t *testing.T) {
	t.Parallel()

	s := newSession(t, "SKK")
	assert.Equal(t, "((SK)K)", s.Expression())
	assert.Equal(t, 5, s.Layout().Len())

	assert.Error(t, s.Load("(("))
	assert.Equal(t, "((SK)K)", s.Expression())

	s.Clear()
	assert.Equal(t, "", s.Expression())
	assert.Equal(t, 1, s.Layout().Len())

	_, err := NewSession(DefaultConfig(), ")")
	assert.Error(t, err)
	bad := DefaultConfig()
	bad.Spacing = 0
	_, err = NewSession(bad, "S")
	assert.Error(t, err)
}

func TestSessionStaleClick(t *testing.T) {
	t.Parallel()

	s := newSession(t, "(Ia)")
	other := MustParse("((((ab)c)d)e)")
	_, err := s.Click(other.Root)
	assert.ErrorIs(t, err, ErrStaleNode)

	_, err = s.Click(Nil)
	assert.ErrorIs(t, err, ErrStaleNode)
}

func TestSessionConcurrentUse(t *testing.T) {
	t.Parallel()

	s := newSession(t, "(((SI)I)((SI)I))")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Step()
				s.Layout()
				_ = s.Expression()
			}
		}()
	}
	wg.Wait()
	reparsed := MustParse(s.Expression())
	assert.True(t, reparsed.Size(reparsed.Root) > 0)
}
