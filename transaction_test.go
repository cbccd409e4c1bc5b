package renga_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/renga"
)

func TestTransaction_Commit(t *testing.T) {
	_, _, p := newProject(t)

	tx, err := p.StartTransaction()
	require.NoError(t, err)
	defer tx.Release()
	assert.Equal(t, renga.TransactionStarted, tx.State())

	require.NoError(t, tx.Commit())
	assert.Equal(t, renga.TransactionCommitted, tx.State())

	has, err := p.HasTransaction()
	require.NoError(t, err)
	assert.False(t, has)

	assert.ErrorIs(t, tx.Commit(), renga.ErrNoActiveTransaction)
	assert.ErrorIs(t, tx.Rollback(), renga.ErrNoActiveTransaction)
}

func TestTransaction_RollbackDiscardsEdits(t *testing.T) {
	sim, _, p := newProject(t)

	tx, err := p.StartTransaction()
	require.NoError(t, err)
	defer tx.Release()

	e, err := p.ImportCategory(testdataEquipmentID, equipmentFixture)
	require.NoError(t, err)
	defer e.Release()

	require.NoError(t, tx.Rollback())
	assert.Equal(t, renga.TransactionRolledBack, tx.State())
	assert.Equal(t, "rolled_back", tx.State().String())

	has, err := p.HasTransaction()
	require.NoError(t, err)
	assert.False(t, has)

	unsaved, err := p.HasUnsavedChanges()
	require.NoError(t, err)
	assert.False(t, unsaved)
	assert.Zero(t, sim.EntityCount())

	assert.ErrorIs(t, tx.Commit(), renga.ErrNoActiveTransaction)
}

func TestTransaction_StartAgainAfterFinish(t *testing.T) {
	_, _, p := newProject(t)

	tx, err := p.StartTransaction()
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	tx.Release()

	tx, err = p.StartTransaction()
	require.NoError(t, err)
	defer tx.Release()
	assert.Equal(t, renga.TransactionStarted, tx.State())
}

func TestTransaction_FailedCommitKeepsState(t *testing.T) {
	_, _, p := newProject(t)

	tx, err := p.StartTransaction()
	require.NoError(t, err)
	defer tx.Release()

	require.NoError(t, p.Close(true))

	require.Error(t, tx.Commit())
	assert.Equal(t, renga.TransactionStarted, tx.State())
}
