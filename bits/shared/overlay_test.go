package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlayStagesUntilCommit(t *testing.T) {
	o := NewOverlay[string, int]()
	o.Set("a", 1)
	o.Commit()

	undoA := o.Set("a", 2)
	o.Set("b", 3)

	v, _ := o.Get("a")
	assert.Equal(t, 1, v)
	_, ok := o.Get("b")
	assert.False(t, ok)
	v, _ = o.Pending("a")
	assert.Equal(t, 2, v)

	undoA()
	v, _ = o.Pending("a")
	assert.Equal(t, 1, v)

	o.Commit()
	v, _ = o.Get("b")
	assert.Equal(t, 3, v)
}

func TestOverlayUndoRestoresEarlierStagedValue(t *testing.T) {
	o := NewOverlay[string, int]()
	o.Set("a", 1)
	undo := o.Set("a", 5)

	undo()
	v, ok := o.Pending("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = o.Get("a")
	assert.False(t, ok)
}
