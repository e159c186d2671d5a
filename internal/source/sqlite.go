package source

import (
	"context"
	"fmt"
	"strings"

	"lifeviz/internal/dataset"
	"lifeviz/internal/pkg/convert"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// sqliteDriverName is the pure-Go modernc driver registered above.
const sqliteDriverName = "sqlite"

type sqliteBackend struct {
	db    *gorm.DB
	table string
}

// OpenSQLite opens a gorm handle on path through the modernc driver.
func OpenSQLite(path string) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := gorm.Open(sqlite.Dialector{DriverName: sqliteDriverName, DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	return db, nil
}

func newSQLiteBackend(path, table string) (*sqliteBackend, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if !db.Migrator().HasTable(table) {
		closeDB(db)
		return nil, fmt.Errorf("sqlite %s: table %q not found", path, table)
	}
	return &sqliteBackend{db: db, table: table}, nil
}

// Fetch selects every column of the table in rowid order.
func (b *sqliteBackend) Fetch(ctx context.Context) (dataset.Table, error) {
	rows, err := b.db.WithContext(ctx).Table(b.table).Order("rowid").Rows()
	if err != nil {
		return dataset.Table{}, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return dataset.Table{}, err
	}
	tbl := dataset.Table{Columns: cols, Cells: [][]string{}}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return dataset.Table{}, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = convert.ToCell(v)
		}
		tbl.Cells = append(tbl.Cells, rec)
	}
	return tbl, rows.Err()
}

func (b *sqliteBackend) Close() error {
	return closeDB(b.db)
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
