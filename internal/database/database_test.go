package database_test

import (
	"os"
	"testing"

	"github.com/mdouchement/itemstore/internal/database"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	_, err := database.Open("mysql://localhost/demo")
	assert.EqualError(t, err, "unsupported database scheme: mysql")

	_, err = database.Open("localhost/demo")
	assert.Error(t, err)

	_, err = database.Open("bolt://"+tempfile(t), database.WithStormCodec("xml"))
	assert.EqualError(t, err, "unknown storm codec: xml")
}

func TestNotInitialized(t *testing.T) {
	each(t, false, func(t *testing.T, db database.Client) {
		_, err := db.Schema()
		assert.True(t, db.IsNotFound(err))

		_, err = db.FindItems()
		require.Error(t, err)
		assert.False(t, db.IsNotFound(err))

		_, err = db.SearchItems(model.SearchParams{Name: "apple"})
		assert.Error(t, err)

		_, err = db.ItemStats()
		assert.Error(t, err)

		err = db.CreateItem(model.NewItem("apple", decimal.NewFromInt(1), nil))
		require.Error(t, err)
		assert.False(t, db.IsAlreadyExists(err))
		assert.False(t, db.IsConstraintViolation(err))

		_, err = db.FindItem(1)
		require.Error(t, err)
		assert.False(t, db.IsNotFound(err))

		require.NoError(t, db.Init())

		items, err := db.FindItems()
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestSQLiteQuietOnExpectedErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	db, err := database.Open("sqlite::memory:", database.WithLogger(logger))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Init())

	require.NoError(t, db.CreateItem(model.NewItem("apple", decimal.NewFromInt(1), nil)))
	err = db.CreateItem(model.NewItem("apple", decimal.NewFromInt(2), nil))
	assert.True(t, db.IsAlreadyExists(err))

	_, err = db.FindItem(42)
	assert.True(t, db.IsNotFound(err))

	require.NotEmpty(t, hook.AllEntries())
	for _, entry := range hook.AllEntries() {
		assert.Equal(t, logrus.DebugLevel, entry.Level, entry.Message)
	}
}

func TestPing(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		now, err := db.Ping()
		require.NoError(t, err)
		assert.False(t, now.IsZero())
	})
}

func TestInit(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		before, err := db.Schema()
		require.NoError(t, err)

		require.NoError(t, db.Init())
		require.NoError(t, db.Init())

		after, err := db.Schema()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestSchema(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		schema, err := db.Schema()
		require.NoError(t, err)

		assert.Equal(t, model.TableItems, schema.Table)

		var names []string
		for _, column := range schema.Columns {
			names = append(names, column.Name)
		}
		assert.Equal(t, []string{"id", "name", "value", "note", "created_at", "updated_at"}, names)
		assert.True(t, schema.Columns[0].PrimaryKey)
		assert.True(t, schema.Columns[1].Unique)
	})
}

func TestCreateItem(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		item := model.NewItem("apple", decimal.RequireFromString("12.5"), str("red"))
		require.NoError(t, db.CreateItem(item))
		assert.NotZero(t, item.ID)
		assert.False(t, item.CreatedAt.IsZero())
		assert.Nil(t, item.UpdatedAt)

		found, err := db.FindItem(item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, "apple", found.Name)
		assert.Equal(t, "12.5", found.Value.String())
		assert.Equal(t, "red", *found.Note)
		assert.True(t, item.CreatedAt.Equal(found.CreatedAt))
		assert.Nil(t, found.UpdatedAt)
	})
}

func TestCreateItem_Constraints(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		err := db.CreateItem(model.NewItem("zero", decimal.Zero, nil))
		assert.Error(t, err)
		assert.True(t, db.IsConstraintViolation(err))
		assert.False(t, db.IsAlreadyExists(err))

		err = db.CreateItem(model.NewItem("negative", decimal.NewFromInt(-3), nil))
		assert.True(t, db.IsConstraintViolation(err))

		items, err := db.FindItems()
		require.NoError(t, err)
		assert.Empty(t, items)

		require.NoError(t, db.CreateItem(model.NewItem("apple", decimal.NewFromInt(1), nil)))
		err = db.CreateItem(model.NewItem("apple", decimal.NewFromInt(2), nil))
		assert.True(t, db.IsAlreadyExists(err))
		assert.False(t, db.IsConstraintViolation(err))

		items, err = db.FindItems()
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestFindItem_NotFound(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		_, err := db.FindItem(42)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestFindItems(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		for _, name := range []string{"cherry", "apple", "banana"} {
			require.NoError(t, db.CreateItem(model.NewItem(name, decimal.NewFromInt(1), nil)))
		}

		items, err := db.FindItems()
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "cherry", items[0].Name)
		assert.Equal(t, "apple", items[1].Name)
		assert.Equal(t, "banana", items[2].Name)
		assert.Less(t, items[0].ID, items[1].ID)
		assert.Less(t, items[1].ID, items[2].ID)
	})
}

func TestReplaceItem(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		item := model.NewItem("apple", decimal.NewFromInt(1), str("red"))
		require.NoError(t, db.CreateItem(item))

		replacement := model.NewItem("pear", decimal.RequireFromString("3.25"), nil)
		replacement.ID = item.ID
		require.NoError(t, db.ReplaceItem(replacement))
		assert.Equal(t, "pear", replacement.Name)
		assert.Equal(t, "3.25", replacement.Value.String())
		assert.Nil(t, replacement.Note)
		assert.NotNil(t, replacement.UpdatedAt)
		assert.True(t, item.CreatedAt.Equal(replacement.CreatedAt))

		replacement = model.NewItem("ghost", decimal.NewFromInt(1), nil)
		replacement.ID = item.ID + 100
		err := db.ReplaceItem(replacement)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestPatchItem(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		item := model.NewItem("apple", decimal.NewFromInt(1), str("red"))
		require.NoError(t, db.CreateItem(item))

		v := decimal.NewFromInt(7)
		patched, err := db.PatchItem(item.ID, model.ItemPatch{Value: &v})
		require.NoError(t, err)
		assert.Equal(t, "apple", patched.Name)
		assert.Equal(t, "7", patched.Value.String())
		assert.Equal(t, "red", *patched.Note)
		assert.NotNil(t, patched.UpdatedAt)

		patched, err = db.PatchItem(item.ID, model.ItemPatch{NoteSet: true})
		require.NoError(t, err)
		assert.Nil(t, patched.Note)
		assert.Equal(t, "7", patched.Value.String())

		zero := decimal.Zero
		_, err = db.PatchItem(item.ID, model.ItemPatch{Value: &zero})
		assert.True(t, db.IsConstraintViolation(err))

		found, err := db.FindItem(item.ID)
		require.NoError(t, err)
		assert.Equal(t, "7", found.Value.String())

		_, err = db.PatchItem(item.ID+100, model.ItemPatch{Value: &v})
		assert.True(t, db.IsNotFound(err))
	})
}

func TestDeleteItem(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		item := model.NewItem("apple", decimal.NewFromInt(1), nil)
		require.NoError(t, db.CreateItem(item))

		require.NoError(t, db.DeleteItem(item.ID))

		_, err := db.FindItem(item.ID)
		assert.True(t, db.IsNotFound(err))

		err = db.DeleteItem(item.ID)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestSearchItems(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		seed(t, db)

		min := decimal.NewFromInt(50)
		items, err := db.SearchItems(model.SearchParams{MinValue: &min})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pineapple", "melon", "grape"}, names(items))
		for _, item := range items {
			assert.True(t, item.Value.GreaterThanOrEqual(min))
		}

		items, err = db.SearchItems(model.SearchParams{Name: "APPLE"})
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "Pineapple"}, names(items))

		max := decimal.NewFromInt(50)
		items, err = db.SearchItems(model.SearchParams{Name: "apple", MaxValue: &max})
		require.NoError(t, err)
		assert.Equal(t, []string{"apple"}, names(items))

		items, err = db.SearchItems(model.SearchParams{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"apple", "Pineapple"}, names(items))

		items, err = db.SearchItems(model.SearchParams{Name: "kiwi"})
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestItemStats(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		stats, err := db.ItemStats()
		require.NoError(t, err)
		assert.EqualValues(t, 0, stats.Count)
		assert.True(t, stats.Sum.IsZero())
		assert.Nil(t, stats.Min)
		assert.Nil(t, stats.Max)
		assert.Nil(t, stats.Avg)

		seed(t, db)

		stats, err = db.ItemStats()
		require.NoError(t, err)
		assert.EqualValues(t, 4, stats.Count)
		assert.Equal(t, "201.4", stats.Sum.String())
		assert.Equal(t, "1.2", stats.Min.String())
		assert.Equal(t, "100", stats.Max.String())
		assert.Equal(t, "50.35", stats.Avg.String())
	})
}

func TestSeed(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		n := seed(t, db)
		assert.Equal(t, 4, n)

		n, err := db.Seed([]*model.Item{
			model.NewItem("apple", decimal.NewFromInt(9), nil),
			model.NewItem("kiwi", decimal.NewFromInt(3), nil),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		items, err := db.SearchItems(model.SearchParams{Name: "apple", MaxValue: ptr(decimal.NewFromInt(50))})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "1.2", items[0].Value.String())
		assert.Nil(t, items[0].UpdatedAt)

		n, err = db.Seed([]*model.Item{
			model.NewItem("apple", decimal.NewFromInt(9), str("updated")),
		}, true)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		items, err = db.SearchItems(model.SearchParams{Name: "apple", MaxValue: ptr(decimal.NewFromInt(50))})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "9", items[0].Value.String())
		assert.Equal(t, "updated", *items[0].Note)
		assert.NotNil(t, items[0].UpdatedAt)

		all, err := db.FindItems()
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})
}

func TestSeed_Atomic(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		_, err := db.Seed([]*model.Item{
			model.NewItem("apple", decimal.NewFromInt(1), nil),
			model.NewItem("zero", decimal.Zero, nil),
		}, false)
		assert.True(t, db.IsConstraintViolation(err))

		items, err := db.FindItems()
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestReset(t *testing.T) {
	backends(t, func(t *testing.T, db database.Client) {
		seed(t, db)

		require.NoError(t, db.Reset())

		items, err := db.FindItems()
		require.NoError(t, err)
		assert.Empty(t, items)

		_, err = db.Schema()
		assert.NoError(t, err)
	})
}

//
//
//

func backends(t *testing.T, fn func(t *testing.T, db database.Client)) {
	each(t, true, fn)
}

func each(t *testing.T, init bool, fn func(t *testing.T, db database.Client)) {
	logger := logrus.New()

	urls := map[string]string{
		"storm":  "bolt://" + tempfile(t),
		"sqlite": "sqlite::memory:",
	}

	for name, url := range urls {
		t.Run(name, func(t *testing.T) {
			db, err := database.Open(url, database.WithLogger(logger))
			require.NoError(t, err)
			defer db.Close()

			if init {
				require.NoError(t, db.Init())
			}
			fn(t, db)
		})
	}
}

func seed(t *testing.T, db database.Client) int {
	n, err := db.Seed([]*model.Item{
		model.NewItem("apple", decimal.RequireFromString("1.2"), nil),
		model.NewItem("Pineapple", decimal.NewFromInt(100), str("tropical")),
		model.NewItem("melon", decimal.NewFromInt(50), nil),
		model.NewItem("grape", decimal.RequireFromString("50.2"), nil),
	}, false)
	require.NoError(t, err)
	return n
}

func tempfile(t *testing.T) string {
	f, err := os.CreateTemp(t.TempDir(), "itemstore.*.db")
	require.NoError(t, err)
	f.Close()
	return f.Name()
}

func names(items []*model.Item) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func str(s string) *string {
	return &s
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
