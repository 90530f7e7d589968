package inventory

import (
	"testing"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(v int) *int { return &v }

func TestEditor_HappyPath(t *testing.T) {
	e := NewEditor()
	assert.Equal(t, PhaseViewing, e.Phase("rye"))

	require.NoError(t, e.Begin("rye"))
	assert.Equal(t, PhaseEditing, e.Phase("rye"))

	require.NoError(t, e.SetDraft("rye", api.PositionEdit{CurrentQuantity: qty(12)}))

	draft, err := e.MarkSaving("rye")
	require.NoError(t, err)
	assert.Equal(t, 12, *draft.CurrentQuantity)
	assert.Equal(t, PhaseSaving, e.Phase("rye"))

	require.NoError(t, e.Complete("rye"))
	assert.Equal(t, PhaseViewing, e.Phase("rye"))
}

func TestEditor_FailedSaveKeepsDraft(t *testing.T) {
	e := NewEditor()
	require.NoError(t, e.Begin("rye"))
	require.NoError(t, e.SetDraft("rye", api.PositionEdit{CurrentQuantity: qty(5)}))
	_, err := e.MarkSaving("rye")
	require.NoError(t, err)

	require.NoError(t, e.Fail("rye", "bakehouse rejected the edit"))
	assert.Equal(t, PhaseSaveFailed, e.Phase("rye"))

	msg, ok := e.Failure("rye")
	require.True(t, ok)
	assert.Equal(t, "bakehouse rejected the edit", msg)

	// Retrying re-enters Editing with a fresh draft.
	require.NoError(t, e.SetDraft("rye", api.PositionEdit{CurrentQuantity: qty(6)}))
	assert.Equal(t, PhaseEditing, e.Phase("rye"))
	_, ok = e.Failure("rye")
	assert.False(t, ok)
}

func TestEditor_IllegalTransitions(t *testing.T) {
	e := NewEditor()

	t.Run("saving without editing", func(t *testing.T) {
		_, err := e.MarkSaving("rye")
		assert.Error(t, err)
	})

	t.Run("draft without editing", func(t *testing.T) {
		err := e.SetDraft("rye", api.PositionEdit{CurrentQuantity: qty(1)})
		assert.Error(t, err)
	})

	t.Run("complete without saving", func(t *testing.T) {
		require.NoError(t, e.Begin("rye"))
		assert.Error(t, e.Complete("rye"))
	})

	t.Run("begin while saving", func(t *testing.T) {
		require.NoError(t, e.SetDraft("rye", api.PositionEdit{CurrentQuantity: qty(2)}))
		_, err := e.MarkSaving("rye")
		require.NoError(t, err)
		assert.Error(t, e.Begin("rye"))
	})
}

func TestEditor_CancelDiscardsState(t *testing.T) {
	e := NewEditor()
	require.NoError(t, e.Begin("rye"))
	require.NoError(t, e.SetDraft("rye", api.PositionEdit{CurrentQuantity: qty(3)}))

	e.Cancel("rye")
	assert.Equal(t, PhaseViewing, e.Phase("rye"))
	_, ok := e.Draft("rye")
	assert.False(t, ok)
}
