package planning

import (
	"context"
	"os"
	"testing"

	"github.com/cristianoafs081993/love-execu-o/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *test_utils.TestDB

func TestMain(m *testing.M) {
	testDB = test_utils.StartDB()
	code := m.Run()
	testDB.Terminate()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository) {
	ctx := context.Background()
	t.Cleanup(func() {
		if err := testDB.Restore(ctx); err != nil {
			t.Fatalf("failed to restore database: %v", err)
		}
	})
	return ctx, NewRepository(testDB.Pool)
}

func TestRepositoryImpl_CreateAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)

	// when
	created, err := repo.Create(ctx, Activity{
		Dimension:      "GO - Governança",
		Name:           "Capacitação",
		PlannedAmount:  1234.56,
		ResourceOrigin: "F1",
	})
	require.NoError(t, err)

	// then
	stored, err := repo.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Capacitação", stored.Name)
	assert.Equal(t, 1234.56, stored.PlannedAmount)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRepositoryImpl_CreateMany_KeepsOrder(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)

	// when
	created, err := repo.CreateMany(ctx, []Activity{
		{Dimension: "GO", Name: "Primeira", PlannedAmount: 1},
		{Dimension: "EN", Name: "Segunda", PlannedAmount: 2},
	})
	require.NoError(t, err)

	// then
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	require.Len(t, all, 2)
	assert.Equal(t, "Primeira", all[0].Name)
	assert.Equal(t, "Segunda", all[1].Name)
}

func TestRepositoryImpl_Update(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	created, err := repo.Create(ctx, Activity{Dimension: "GO", Name: "Curso", PlannedAmount: 10, Process: "P1"})
	require.NoError(t, err)
	amount := 99.9
	name := "Curso avançado"

	// when
	updated, err := repo.Update(ctx, created.Id, Patch{PlannedAmount: &amount, Name: &name})

	// then
	require.NoError(t, err)
	assert.Equal(t, 99.9, updated.PlannedAmount)
	assert.Equal(t, "Curso avançado", updated.Name)
	assert.Equal(t, "P1", updated.Process)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestRepositoryImpl_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	name := "x"

	_, err := repo.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = repo.Update(ctx, "5d1c8b0e-1f7a-4a43-9c4b-2a3f2d1e0b9a", Patch{Name: &name})
	assert.ErrorIs(t, err, ErrActivityNotFound)

	deleted, err := repo.Delete(ctx, "5d1c8b0e-1f7a-4a43-9c4b-2a3f2d1e0b9a")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepositoryImpl_Delete(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	created, err := repo.Create(ctx, Activity{Dimension: "GO", Name: "Curso"})
	require.NoError(t, err)

	// when
	deleted, err := repo.Delete(ctx, created.Id)

	// then
	require.NoError(t, err)
	assert.True(t, deleted)
	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
