package collection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Rating *float64 `json:"rating"`
}

var itemIdentity = Identity[item]{
	ID:    func(i item) int { return i.ID },
	SetID: func(i *item, id int) { i.ID = id },
	Clone: func(i item) item {
		i.Rating = ClonePtr(i.Rating)
		return i
	},
}

func openTemp(t *testing.T) (*Collection[item], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "items.json")
	return Open("items", path, itemIdentity, zerolog.Nop()), path
}

func insert(t *testing.T, c *Collection[item], name string) item {
	t.Helper()
	it, err := c.Insert(func(id int) item { return item{ID: id, Name: name} })
	require.NoError(t, err)
	return it
}

func float(v float64) *float64 { return &v }

func TestOpen_MissingFile(t *testing.T) {
	c, path := openTemp(t)

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, path, c.Path())
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := Open("items", path, itemIdentity, zerolog.Nop())

	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Snapshot())
}

func TestInsert_AssignsSequentialIDs(t *testing.T) {
	c, _ := openTemp(t)

	a := insert(t, c, "a")
	b := insert(t, c, "b")
	d := insert(t, c, "c")

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 3, d.ID)
}

func TestInsert_DoesNotReuseIDsAfterRemove(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	insert(t, c, "b")

	_, err := c.Remove(1)
	require.NoError(t, err)

	next := insert(t, c, "c")
	assert.Equal(t, 3, next.ID)
}

func TestInsert_CreatesParentDirectories(t *testing.T) {
	c, path := openTemp(t)
	insert(t, c, "a")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": 1,")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	c, path := openTemp(t)
	insert(t, c, "a")
	insert(t, c, "b")
	_, err := c.Mutate(2, func(i *item) error {
		i.Rating = float(4.5)
		i.Kind = "x"
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, c.Save())

	fresh := Open("items", path, itemIdentity, zerolog.Nop())

	assert.Equal(t, c.Snapshot(), fresh.Snapshot())
	assert.Equal(t, c.Snapshot(), fresh.Load())
}

func TestSave_EmptyCollectionWritesArray(t *testing.T) {
	c, path := openTemp(t)
	require.NoError(t, c.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestGet(t *testing.T) {
	c, _ := openTemp(t)
	added := insert(t, c, "a")

	got, err := c.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	_, err = c.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutate_RejectionLeavesRecordUntouched(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	errInvalid := errors.New("invalid")

	_, err := c.Mutate(1, func(i *item) error {
		i.Name = "changed"
		return errInvalid
	})

	assert.ErrorIs(t, err, errInvalid)
	got, _ := c.Get(1)
	assert.Equal(t, "a", got.Name)
}

func TestMutate_CannotChangeID(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")

	updated, err := c.Mutate(1, func(i *item) error {
		i.ID = 99
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
}

func TestMutate_NotFound(t *testing.T) {
	c, _ := openTemp(t)

	_, err := c.Mutate(7, func(i *item) error { return nil })

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_NotFoundKeepsLength(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")

	_, err := c.Remove(5)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, c.Len())
}

func TestRemove_SnapshotIsIndependent(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	insert(t, c, "b")
	snap := c.Snapshot()

	_, err := c.Remove(1)
	require.NoError(t, err)

	assert.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].Name)
}

func TestRemoveFunc(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	insert(t, c, "b")
	insert(t, c, "a")

	removed, err := c.RemoveFunc(func(i item) bool { return i.Name == "a" })
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.Equal(t, 1, c.Len())

	_, err = c.RemoveFunc(func(i item) bool { return i.Name == "zz" })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPersistFailure_KeepsInMemoryMutation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not a dir"), 0o644))

	c := Open("items", filepath.Join(blocker, "items.json"), itemIdentity, zerolog.Nop())

	added, err := c.Insert(func(id int) item { return item{ID: id, Name: "a"} })

	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 1, added.ID)
	assert.Equal(t, 1, c.Len())
}

func TestFind(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	insert(t, c, "b")

	got, ok := c.Find(func(i item) bool { return i.Name == "b" })
	assert.True(t, ok)
	assert.Equal(t, 2, got.ID)

	_, ok = c.Find(func(i item) bool { return i.Name == "z" })
	assert.False(t, ok)
}

func TestInsert_ReusesMaxIDAfterItIsRemoved(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	insert(t, c, "b")

	_, err := c.Remove(2)
	require.NoError(t, err)

	next := insert(t, c, "c")
	assert.Equal(t, 2, next.ID)
}

func TestReturnedRecordsDoNotAliasStoredPointers(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")
	_, err := c.Mutate(1, func(i *item) error {
		i.Rating = float(3)
		return nil
	})
	require.NoError(t, err)

	got, err := c.Get(1)
	require.NoError(t, err)
	*got.Rating = 99

	snap := c.Snapshot()
	*snap[0].Rating = 42

	found, ok := c.Find(func(i item) bool { return i.Name == "a" })
	require.True(t, ok)
	*found.Rating = 7

	stored, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, *stored.Rating)
}

func TestInsert_DoesNotKeepCallerPointers(t *testing.T) {
	c, _ := openTemp(t)
	rating := 2.0

	added, err := c.Insert(func(id int) item { return item{ID: id, Name: "a", Rating: &rating} })
	require.NoError(t, err)
	rating = 5
	*added.Rating = 4

	stored, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, *stored.Rating)
}

func TestMutate_ReturnedRecordDoesNotAliasStore(t *testing.T) {
	c, _ := openTemp(t)
	insert(t, c, "a")

	updated, err := c.Mutate(1, func(i *item) error {
		i.Rating = float(1)
		return nil
	})
	require.NoError(t, err)
	*updated.Rating = 9

	stored, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, *stored.Rating)
}

func TestOpen_NormalizesAndRepairsIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	raw := `[{"name":"a"},{"id":4,"name":"b","kind":"x"},{"id":4,"name":"c"},{"id":-1,"name":"d"}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	identity := itemIdentity
	identity.Normalize = func(i *item) bool {
		if i.Kind != "" {
			return false
		}
		i.Kind = "plain"
		return true
	}
	c := Open("items", path, identity, zerolog.Nop())

	snap := c.Snapshot()
	require.Len(t, snap, 4)
	ids := []int{snap[0].ID, snap[1].ID, snap[2].ID, snap[3].ID}
	assert.Equal(t, []int{5, 4, 6, 7}, ids)
	assert.Equal(t, "plain", snap[0].Kind)
	assert.Equal(t, "x", snap[1].Kind)

	fresh := Open("items", path, itemIdentity, zerolog.Nop())
	assert.Equal(t, snap, fresh.Snapshot())
}

func TestOpen_CleanFileIsNotRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	raw := `[{"id":1,"name":"a","kind":"x","rating":null}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	c := Open("items", path, itemIdentity, zerolog.Nop())
	require.Equal(t, 1, c.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))
}
