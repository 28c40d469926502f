package database

import (
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/araddon/dateparse"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mdouchement/itemstore/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgreSQL error codes.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgNotNullViolation = "23502"
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
)

var columnsOrder = map[string]int{
	"id":         0,
	"name":       1,
	"value":      2,
	"note":       3,
	"created_at": 4,
	"updated_at": 5,
}

type relational struct {
	db *gorm.DB
	sq squirrel.StatementBuilderType
}

// PostgresOpen returns a new PostgreSQL database connection.
func PostgresOpen(dsn string, l logrus.FieldLogger) (Client, error) {
	return gormOpen(postgres.Open(dsn), l, 0)
}

// SQLiteOpen returns a new SQLite database connection.
// The pool is limited to one connection so in-memory databases are shared.
func SQLiteOpen(path string, l logrus.FieldLogger) (Client, error) {
	return gormOpen(sqlite.Open(path), l, 1)
}

func gormOpen(dialector gorm.Dialector, l logrus.FieldLogger, maxOpenConns int) (Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(gormWriter{l}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: model.Now,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	if maxOpenConns > 0 {
		sqldb, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "could not get database pool")
		}
		sqldb.SetMaxOpenConns(maxOpenConns)
	}

	return &relational{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Ping performs a trivial query and returns the database current time.
func (c *relational) Ping() (time.Time, error) {
	var now string
	if err := c.db.Raw("SELECT CURRENT_TIMESTAMP").Row().Scan(&now); err != nil {
		return time.Time{}, errors.Wrap(err, "could not ping database")
	}

	t, err := dateparse.ParseAny(now)
	return t.UTC(), errors.Wrap(err, "could not parse database time")
}

// Close the database.
func (c *relational) Close() error {
	sqldb, err := c.db.DB()
	if err != nil {
		return errors.Wrap(err, "could not get database pool")
	}
	return sqldb.Close()
}

// gormWriter forwards gorm traces at debug level.
// Failed statements are returned to the caller, which decides how to report them.
type gormWriter struct {
	l logrus.FieldLogger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.l.Debugf(format, args...)
}

// IsNotFound returns true if err is a not found error.
func (c *relational) IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsAlreadyExists returns true if err is a uniqueness violation.
func (c *relational) IsAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsConstraintViolation returns true if err is a check or not-null violation.
func (c *relational) IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code == pgCheckViolation || pgerr.Code == pgNotNullViolation
	}
	message := err.Error()
	return strings.Contains(message, "CHECK constraint failed") || strings.Contains(message, "NOT NULL constraint failed")
}

// Init creates the items table and its indexes if they do not exist.
func (c *relational) Init() error {
	err := c.db.AutoMigrate(&model.Item{})
	return errors.Wrap(err, "could not migrate items table")
}

// Reset drops and recreates the items table.
func (c *relational) Reset() error {
	if err := c.db.Migrator().DropTable(&model.Item{}); err != nil {
		return errors.Wrap(err, "could not drop items table")
	}
	return c.Init()
}

// Schema returns the column metadata of the items table.
func (c *relational) Schema() (*model.Schema, error) {
	migrator := c.db.Migrator()
	if !migrator.HasTable(&model.Item{}) {
		return nil, errors.Wrap(gorm.ErrRecordNotFound, "could not find items table")
	}

	types, err := migrator.ColumnTypes(&model.Item{})
	if err != nil {
		return nil, errors.Wrap(err, "could not get items columns")
	}
	uniqueName := migrator.HasIndex(&model.Item{}, "idx_items_name")

	schema := &model.Schema{
		Table:   model.TableItems,
		Columns: make([]model.Column, 0, len(types)),
	}
	for _, ct := range types {
		column := model.Column{
			Name: ct.Name(),
			Type: strings.ToLower(ct.DatabaseTypeName()),
		}
		column.Nullable, _ = ct.Nullable()
		column.PrimaryKey, _ = ct.PrimaryKey()
		column.Unique, _ = ct.Unique()
		column.Unique = column.Unique || column.PrimaryKey || (column.Name == "name" && uniqueName)

		schema.Columns = append(schema.Columns, column)
	}

	sort.SliceStable(schema.Columns, func(i, j int) bool {
		return position(schema.Columns[i].Name) < position(schema.Columns[j].Name)
	})
	return schema, nil
}

// Seed inserts all the given items in one transaction.
func (c *relational) Seed(items []*model.Item, replace bool) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	t := model.Now()
	for _, m := range items {
		m.ID = 0
		m.SetCreatedAt(t)
		m.UpdatedAt = nil
	}

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}
	if replace {
		conflict = clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"value", "note"}),
				clause.Assignment{Column: clause.Column{Name: "updated_at"}, Value: t},
			),
		}
	}

	var n int64
	err := c.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(conflict).Create(&items)
		n = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "could not seed items")
	}
	return int(n), nil
}

// CreateItem inserts the given item and fills its ID and timestamps.
func (c *relational) CreateItem(m *model.Item) error {
	m.ID = 0
	m.SetCreatedAt(model.Now())
	m.UpdatedAt = nil

	err := c.db.Create(m).Error
	return errors.Wrap(err, "could not create item")
}

// FindItem returns the item for the given id.
func (c *relational) FindItem(id int64) (*model.Item, error) {
	return c.findItem(c.db, id)
}

// FindItems returns all the items ordered by id.
func (c *relational) FindItems() ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.Order("id").Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not find items")
	}
	return items, nil
}

// ReplaceItem replaces all the mutable fields of the item matching m.ID.
func (c *relational) ReplaceItem(m *model.Item) error {
	item, err := c.update(m.ID, map[string]any{
		"name":  m.Name,
		"value": m.Value,
		"note":  m.Note,
	})
	if err != nil {
		return err
	}

	*m = *item
	return nil
}

// PatchItem updates the given fields of the item and returns the updated item.
func (c *relational) PatchItem(id int64, patch model.ItemPatch) (*model.Item, error) {
	return c.update(id, patch.Columns())
}

// DeleteItem deletes the item for the given id.
func (c *relational) DeleteItem(id int64) error {
	result := c.db.Where("id = ?", id).Delete(&model.Item{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not delete item")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(gorm.ErrRecordNotFound, "could not delete item")
	}
	return nil
}

// SearchItems returns the items matching the given parameters ordered by id.
func (c *relational) SearchItems(params model.SearchParams) ([]*model.Item, error) {
	where := squirrel.And{}
	if params.Name != "" {
		pattern := "%" + escapeLike(strings.ToLower(params.Name)) + "%"
		where = append(where, squirrel.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, pattern))
	}
	if params.MinValue != nil {
		where = append(where, squirrel.GtOrEq{"value": *params.MinValue})
	}
	if params.MaxValue != nil {
		where = append(where, squirrel.LtOrEq{"value": *params.MaxValue})
	}

	tx := c.db.Order("id")
	if len(where) > 0 {
		query, args, err := where.ToSql()
		if err != nil {
			return nil, errors.Wrap(err, "could not build search query")
		}
		tx = tx.Where(query, args...)
	}
	if params.Limit > 0 {
		tx = tx.Limit(params.Limit)
	}

	items := make([]*model.Item, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "could not search items")
	}
	return items, nil
}

// ItemStats aggregates the value column of all the items.
func (c *relational) ItemStats() (*model.Stats, error) {
	query, args, err := c.sq.
		Select("COUNT(*)", "COALESCE(SUM(value), 0)", "MIN(value)", "MAX(value)", "AVG(value)").
		From(model.TableItems).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "could not build stats query")
	}

	var stats model.Stats
	var min, max, avg decimal.NullDecimal
	err = c.db.Raw(query, args...).Row().Scan(&stats.Count, &stats.Sum, &min, &max, &avg)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute stats")
	}

	stats.Sum = model.RoundValue(stats.Sum)
	if min.Valid {
		stats.Min = &min.Decimal
	}
	if max.Valid {
		stats.Max = &max.Decimal
	}
	if avg.Valid {
		v := model.RoundValue(avg.Decimal)
		stats.Avg = &v
	}
	return &stats, nil
}

func (c *relational) findItem(db *gorm.DB, id int64) (*model.Item, error) {
	var item model.Item
	if err := db.Where("id = ?", id).Take(&item).Error; err != nil {
		return nil, errors.Wrap(err, "could not find item")
	}
	return &item, nil
}

func (c *relational) update(id int64, columns map[string]any) (*model.Item, error) {
	columns["updated_at"] = model.Now()

	var item *model.Item
	err := c.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Item{}).Where("id = ?", id).Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var err error
		item, err = c.findItem(tx, id)
		return err
	})
	return item, errors.Wrap(err, "could not update item")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func position(column string) int {
	if i, ok := columnsOrder[column]; ok {
		return i
	}
	return len(columnsOrder)
}
