package database

import (
	"regexp"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/mdouchement/itemstore/pkg/stormcodec"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"
)

// StormBucket is the bucket where items are stored in a storm database.
const StormBucket = "ItemRecord"

var (
	// ErrConstraintViolation is returned when a record does not satisfy the items table constraints.
	ErrConstraintViolation = errors.New("items table constraint violation")
	// ErrNotInitialized is returned when the items bucket has not been created by Init.
	ErrNotInitialized = errors.New("items bucket does not exist")
)

// An ItemRecord is an item as stored in a storm database.
// Values are stored as float64 so they can be compared by storm matchers.
type ItemRecord struct {
	ID        int64  `storm:"id,increment"`
	Name      string `storm:"unique"`
	Value     float64
	Note      *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewItemRecord returns the storm record of the given item.
func NewItemRecord(m *model.Item) *ItemRecord {
	v, _ := m.Value.Float64()
	return &ItemRecord{
		ID:        m.ID,
		Name:      m.Name,
		Value:     v,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Item returns the model of the record.
func (r *ItemRecord) Item() *model.Item {
	return &model.Item{
		ID:        r.ID,
		Name:      r.Name,
		Value:     model.RoundValue(decimal.NewFromFloat(r.Value)),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type strm struct {
	db *storm.DB
}

// StormOpen returns a new Storm database connection.
// The codec is resolved with stormcodec.ByName.
func StormOpen(database, codec string) (Client, error) {
	c, err := stormcodec.ByName(codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(database,
		storm.Codec(c),
		storm.BoltOptions(0600, &bolt.Options{Timeout: time.Second}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Ping performs a trivial query and returns the database current time.
func (c *strm) Ping() (time.Time, error) {
	err := c.db.Bolt.View(func(*bolt.Tx) error {
		return nil
	})
	return model.Now(), errors.Wrap(err, "could not ping database")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	cause := errors.Cause(err)
	return cause == storm.ErrNotFound || cause == storm.ErrNoID
}

// IsAlreadyExists returns true if err is a uniqueness violation.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// IsConstraintViolation returns true if err is a check or not-null violation.
func (c *strm) IsConstraintViolation(err error) bool {
	return errors.Cause(err) == ErrConstraintViolation
}

// Init creates the items bucket and its indexes if they do not exist.
func (c *strm) Init() error {
	err := c.db.Init(&ItemRecord{})
	return errors.Wrap(err, "could not init item index")
}

// Reset drops and recreates the items bucket.
func (c *strm) Reset() error {
	err := c.db.Drop(&ItemRecord{})
	if err != nil && errors.Cause(err) != bolt.ErrBucketNotFound && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not drop items")
	}
	return c.Init()
}

// Schema returns the column metadata of the items bucket.
func (c *strm) Schema() (*model.Schema, error) {
	if err := c.ready(); err != nil {
		if errors.Cause(err) == ErrNotInitialized {
			err = storm.ErrNotFound
		}
		return nil, errors.Wrap(err, "could not find items bucket")
	}

	return &model.Schema{
		Table: model.TableItems,
		Columns: []model.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, Unique: true},
			{Name: "name", Type: "text", Unique: true},
			{Name: "value", Type: "numeric(12,2)"},
			{Name: "note", Type: "text", Nullable: true},
			{Name: "created_at", Type: "timestamp"},
			{Name: "updated_at", Type: "timestamp", Nullable: true},
		},
	}, nil
}

// Seed inserts all the given items in one transaction.
func (c *strm) Seed(items []*model.Item, replace bool) (int, error) {
	if err := c.ready(); err != nil {
		return 0, err
	}

	tx, err := c.db.Begin(true)
	if err != nil {
		return 0, errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var n int
	t := model.Now()
	for _, m := range items {
		if err = check(m); err != nil {
			return 0, err
		}

		var record ItemRecord
		err = tx.One("Name", m.Name, &record)
		if err != nil && !c.IsNotFound(err) {
			return 0, errors.Wrap(err, "could not find item by name")
		}

		if err == nil {
			if !replace {
				continue
			}

			m.ID = record.ID
			m.CreatedAt = record.CreatedAt
			m.SetUpdatedAt(t)
		} else {
			m.ID = 0
			m.SetCreatedAt(t)
			m.UpdatedAt = nil
		}

		record = *NewItemRecord(m)
		if err = tx.Save(&record); err != nil {
			return 0, errors.Wrap(err, "could not save item")
		}
		m.ID = record.ID
		n++
	}

	return n, errors.Wrap(tx.Commit(), "could not commit seed")
}

// CreateItem inserts the given item and fills its ID and timestamps.
func (c *strm) CreateItem(m *model.Item) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := check(m); err != nil {
		return err
	}

	m.ID = 0
	m.SetCreatedAt(model.Now())
	m.UpdatedAt = nil

	record := NewItemRecord(m)
	if err := c.db.Save(record); err != nil {
		return errors.Wrap(err, "could not create item")
	}
	m.ID = record.ID
	return nil
}

// FindItem returns the item for the given id.
func (c *strm) FindItem(id int64) (*model.Item, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var record ItemRecord
	if err := c.db.One("ID", id, &record); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return record.Item(), nil
}

// FindItems returns all the items ordered by id.
func (c *strm) FindItems() ([]*model.Item, error) {
	return c.find(c.db.Select().OrderBy("ID"))
}

// ReplaceItem replaces all the mutable fields of the item matching m.ID.
func (c *strm) ReplaceItem(m *model.Item) error {
	if err := check(m); err != nil {
		return err
	}

	item, err := c.update(m.ID, func(current *model.Item) {
		current.Name = m.Name
		current.Value = m.Value
		current.Note = m.Note
	})
	if err != nil {
		return err
	}

	*m = *item
	return nil
}

// PatchItem updates the given fields of the item and returns the updated item.
func (c *strm) PatchItem(id int64, patch model.ItemPatch) (*model.Item, error) {
	return c.update(id, patch.Apply)
}

// DeleteItem deletes the item for the given id.
func (c *strm) DeleteItem(id int64) error {
	if err := c.ready(); err != nil {
		return err
	}

	err := c.db.DeleteStruct(&ItemRecord{ID: id})
	return errors.Wrap(err, "could not delete item")
}

// SearchItems returns the items matching the given parameters ordered by id.
func (c *strm) SearchItems(params model.SearchParams) ([]*model.Item, error) {
	var matchers []q.Matcher
	if params.Name != "" {
		matchers = append(matchers, q.Re("Name", "(?i)"+regexp.QuoteMeta(params.Name)))
	}
	if params.MinValue != nil {
		v, _ := params.MinValue.Float64()
		matchers = append(matchers, q.Gte("Value", v))
	}
	if params.MaxValue != nil {
		v, _ := params.MaxValue.Float64()
		matchers = append(matchers, q.Lte("Value", v))
	}

	query := c.db.Select(matchers...).OrderBy("ID")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	return c.find(query)
}

// ItemStats aggregates the value column of all the items.
func (c *strm) ItemStats() (*model.Stats, error) {
	items, err := c.FindItems()
	if err != nil {
		return nil, err
	}
	return model.NewStats(items), nil
}

func (c *strm) find(query storm.Query) ([]*model.Item, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	records := make([]*ItemRecord, 0)
	err := query.Find(&records)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find items")
	}

	items := make([]*model.Item, len(records))
	for i, record := range records {
		items[i] = record.Item()
	}
	return items, nil
}

func (c *strm) update(id int64, fn func(current *model.Item)) (*model.Item, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var record ItemRecord
	if err = tx.One("ID", id, &record); err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}

	current := record.Item()
	fn(current)
	current.SetUpdatedAt(model.Now())
	if err = check(current); err != nil {
		return nil, err
	}

	record = *NewItemRecord(current)
	if err = tx.Save(&record); err != nil {
		return nil, errors.Wrap(err, "could not update item")
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "could not commit update")
	}
	return current, nil
}

// ready returns ErrNotInitialized when the items bucket is missing.
// Storm would create it on the first write.
func (c *strm) ready() error {
	err := c.db.Bolt.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(StormBucket)) == nil {
			return ErrNotInitialized
		}
		return nil
	})
	return errors.Wrap(err, "could not use items bucket")
}

// check enforces the constraints a relational database declares on the items table.
func check(m *model.Item) error {
	if m.Name == "" {
		return errors.Wrap(ErrConstraintViolation, "name must not be empty")
	}
	if !model.ValidValue(m.Value) {
		return errors.Wrapf(ErrConstraintViolation, "invalid value %s", m.Value)
	}
	return nil
}
