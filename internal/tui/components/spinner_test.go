package components

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

var _ dexplore.LoadingIndicator = LoadSpinner{}

func TestLoadSpinner_ShowHide(t *testing.T) {
	s := NewLoadSpinner("Loading")
	assert.False(t, s.Visible())
	assert.Empty(t, s.View())

	s.Show()
	assert.True(t, s.Visible())
	assert.Contains(t, s.View(), "Loading")

	s.Show()
	s.Hide()
	assert.True(t, s.Visible(), "one load still in flight")

	s.Hide()
	assert.False(t, s.Visible())

	s.Hide()
	s.Show()
	assert.True(t, s.Visible(), "extra Hide must not go negative")
}

func TestLoadSpinner_CopiesShareState(t *testing.T) {
	s := NewLoadSpinner("Loading")
	copied := s
	copied.Show()
	assert.True(t, s.Visible())
}

func TestLoadSpinner_Concurrent(t *testing.T) {
	s := NewLoadSpinner("Loading")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Show()
			s.Hide()
		}()
	}
	wg.Wait()
	assert.False(t, s.Visible())
}
