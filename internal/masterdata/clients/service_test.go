package clients

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanave/cuadre/internal/masterdata/shared"
	"github.com/lanave/cuadre/internal/platform/httpx"
	_ "github.com/lanave/cuadre/testing"
)

type memoryRepo struct {
	rows   map[string]Client
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]Client)}
}

func (r *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	var out []Client
	for _, c := range r.rows {
		if filters.IsActive != nil && c.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Client, error) {
	c, ok := r.rows[id]
	if !ok {
		return Client{}, httpx.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Create(ctx context.Context, client Client) (Client, error) {
	r.nextID++
	client.ID = strconv.Itoa(r.nextID)
	r.rows[client.ID] = client
	return client, nil
}

func (r *memoryRepo) Update(ctx context.Context, id string, client Client) error {
	if _, ok := r.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	client.ID = id
	r.rows[id] = client
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.rows[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Client{Name: "   "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateAndUpdateRoundTrip(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	groupID := "11111111-1111-1111-1111-111111111111"
	created, err := svc.Create(ctx, Client{Name: "Inversiones Pérez", GroupID: &groupID, IsActive: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	require.NoError(t, svc.Update(ctx, created.ID, Client{Name: "Inversiones Pérez C.A.", IsActive: false}))
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Inversiones Pérez C.A.", got.Name)
	require.False(t, got.IsActive)
}

func TestInactiveFilter(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Client{Name: "Activo", IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Client{Name: "Retirado"})
	require.NoError(t, err)

	active := true
	items, total, err := svc.List(ctx, shared.ListFilters{IsActive: &active})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Activo", items[0].Name)
}

func TestMutationsRequireID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	require.ErrorIs(t, svc.Update(ctx, "", Client{Name: "x"}), httpx.ErrValidation)
	require.ErrorIs(t, svc.Delete(ctx, ""), httpx.ErrValidation)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), httpx.ErrNotFound)
}
