package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(id string) *address.ISOAddress {
	return &address.ISOAddress{
		ID:             id,
		Kind:           address.KindOrganization,
		RecipientName:  utils.StrPtr("DURAND SA"),
		Department:     utils.StrPtr("Purchasing Department"),
		BuildingNumber: utils.StrPtr("22BIS"),
		StreetName:     utils.StrPtr("Rue des Fleurs"),
		PostCode:       utils.StrPtr("33506"),
		TownName:       utils.StrPtr("LIBOURNE CEDEX"),
		Country:        utils.StrPtr("FR"),
	}
}

func newRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.json")
	return New(path), path
}

func TestRepository_MissingFileIsEmpty(t *testing.T) {
	repo, _ := newRepo(t)

	all, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_CorruptFileIsEmpty(t *testing.T) {
	repo, path := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = os.Stat(path + CorruptSuffix)
	assert.True(t, os.IsNotExist(err), "reads must leave the file in place")

	require.NoError(t, repo.Save(context.Background(), sample("a")))
	all, err = repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	kept, err := os.ReadFile(path + CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(kept))
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo, path := newRepo(t)

	require.NoError(t, repo.Save(ctx, sample("b")))
	require.NoError(t, repo.Save(ctx, sample("a")))
	assert.ErrorIs(t, repo.Save(ctx, sample("a")), address.ErrAddressExists)

	got, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sample("a"), got)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"a", "b"}, []string{all[0].ID, all[1].ID})

	updated := sample("b")
	updated.Kind = address.KindIndividual
	updated.Department = nil
	updated.Room = utils.StrPtr("Apt 12")
	require.NoError(t, repo.Update(ctx, updated))
	assert.ErrorIs(t, repo.Update(ctx, sample("zzz")), address.ErrAddressNotFound)

	reopened := New(path)
	got, err = reopened.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, address.KindIndividual, got.Kind)
	assert.Equal(t, utils.StrPtr("Apt 12"), got.Room)
	assert.Nil(t, got.Department)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), address.ErrAddressNotFound)
	_, err = repo.FindByID(ctx, "a")
	assert.ErrorIs(t, err, address.ErrAddressNotFound)
}

func TestRepository_FileShape(t *testing.T) {
	ctx := context.Background()
	repo, path := newRepo(t)
	require.NoError(t, repo.Save(ctx, sample("addr-1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "addr-1")
	assert.Equal(t, "organization", raw["addr-1"]["kind"])
	assert.Equal(t, "33506", raw["addr-1"]["post_code"])
	assert.NotContains(t, raw["addr-1"], "room")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestRepository_UnreadablePath(t *testing.T) {
	repo := New(t.TempDir())

	_, err := repo.FindAll(context.Background())
	assert.Error(t, err)
}
