package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateAllocatesShortIDs(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	first := &domain.Project{Name: "Harbor View", ContractValue: 61_000_000}
	second := &domain.Project{Name: "Pearl Lofts"}
	require.NoError(t, svc.Create(ctx, first))
	require.NoError(t, svc.Create(ctx, second))

	assert.Equal(t, "P001", first.ShortID)
	assert.Equal(t, "P002", second.ShortID)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	event := env.observer.last()
	assert.Equal(t, "project.create", event.Name)
	assert.True(t, event.Success)
	assert.Equal(t, "P002", event.Fields["short_id"])
}

func TestProjectService_CreateExplicitShortID(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	p := &domain.Project{Name: "Harbor View", ShortID: "p042"}
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, "P042", p.ShortID)

	bad := &domain.Project{Name: "Bad", ShortID: "X1"}
	err := svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()

	err := svc.Create(context.Background(), &domain.Project{Name: "  ", ContractValue: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "contract_value")
	assert.False(t, env.observer.last().Success)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	p := &domain.Project{Name: "Harbor View"}
	require.NoError(t, svc.Create(ctx, p))

	for _, ref := range []string{"P001", "p1", " P0001 ", p.ID} {
		got, err := svc.Resolve(ctx, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, p.ID, got.ID, ref)
	}

	_, err := svc.Resolve(ctx, "P999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := env.projectService()
	ctx := context.Background()

	p := &domain.Project{Name: "Harbor View"}
	require.NoError(t, svc.Create(ctx, p))

	p.Client = "Andersen Construction"
	require.NoError(t, svc.Update(ctx, p))
	got, err := svc.GetByShortID(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, "Andersen Construction", got.Client)

	p.Name = ""
	assert.ErrorIs(t, svc.Update(ctx, p), domain.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
