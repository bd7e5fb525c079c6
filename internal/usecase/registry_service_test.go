package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dimba-league/dimba-api/internal/domain/county"
	"github.com/dimba-league/dimba-api/internal/domain/region"
	"github.com/dimba-league/dimba-api/internal/domain/team"
	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

func newRegistryEnv(t *testing.T) (*testEnv, *RegistryService) {
	t.Helper()
	env := newTestEnv(t, 1)
	return env, NewRegistryService(env.store, logging.NewNop())
}

func (e *testEnv) seedRegionCounty(t *testing.T) (region.Region, county.County) {
	t.Helper()
	ctx := context.Background()

	reg := region.Region{Name: "Coast", Code: "CST"}
	require.NoError(t, e.store.Regions().Create(ctx, &reg))
	cty := county.County{Name: "Mombasa", Code: 1, RegionID: reg.ID}
	require.NoError(t, e.store.Counties().Create(ctx, &cty))
	return reg, cty
}

func TestRegistryService_RegisterTeamDerivesRegion(t *testing.T) {
	env, registry := newRegistryEnv(t)
	reg, cty := env.seedRegionCounty(t)

	created, err := registry.RegisterTeam(context.Background(), team.Team{
		Name:     "Bandari FC",
		CountyID: cty.ID,
		// RegionID deliberately wrong; the county wins.
		RegionID: reg.ID + 99,
		Category: team.CategoryMen,
	})
	require.NoError(t, err)
	require.Equal(t, reg.ID, created.RegionID)
	require.Equal(t, team.StatusPending, created.Status)
	require.NotZero(t, created.ID)
}

func TestRegistryService_RegisterTeamUnknownCounty(t *testing.T) {
	_, registry := newRegistryEnv(t)

	_, err := registry.RegisterTeam(context.Background(), team.Team{
		Name:     "Ghost FC",
		CountyID: 404,
		Category: team.CategoryMen,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryService_SetTeamStatus(t *testing.T) {
	env, registry := newRegistryEnv(t)
	_, cty := env.seedRegionCounty(t)

	created, err := registry.RegisterTeam(context.Background(), team.Team{
		Name:     "Bandari FC",
		CountyID: cty.ID,
		Category: team.CategoryMen,
	})
	require.NoError(t, err)

	approved, err := registry.SetTeamStatus(context.Background(), created.ID, team.StatusActive)
	require.NoError(t, err)
	require.Equal(t, team.StatusActive, approved.Status)

	_, err = registry.SetTeamStatus(context.Background(), created.ID, "RETIRED")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = registry.SetTeamStatus(context.Background(), created.ID+99, team.StatusSuspended)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryService_CreateRegionDuplicate(t *testing.T) {
	_, registry := newRegistryEnv(t)
	ctx := context.Background()

	_, err := registry.CreateRegion(ctx, region.Region{Name: "Nyanza", Code: "NYZ"})
	require.NoError(t, err)

	_, err = registry.CreateRegion(ctx, region.Region{Name: "Nyanza", Code: "NYZ"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegistryService_CreateCountyRequiresRegion(t *testing.T) {
	_, registry := newRegistryEnv(t)

	_, err := registry.CreateCounty(context.Background(), county.County{
		Name:     "Kisumu",
		Code:     42,
		RegionID: 404,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryService_ListCountiesByRegion(t *testing.T) {
	env, registry := newRegistryEnv(t)
	reg, _ := env.seedRegionCounty(t)
	ctx := context.Background()

	other := region.Region{Name: "Western", Code: "WST"}
	require.NoError(t, env.store.Regions().Create(ctx, &other))
	require.NoError(t, env.store.Counties().Create(ctx, &county.County{Name: "Kakamega", Code: 37, RegionID: other.ID}))

	all, err := registry.ListCounties(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := registry.ListCounties(ctx, reg.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, "Mombasa", scoped[0].Name)
}
