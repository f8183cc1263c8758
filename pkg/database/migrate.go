package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// tableDDL is the full base schema, created in one pass on every start.
// Column shapes must stay in sync with internal/model.
func tableDDL(pk string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + pk + `,
			name TEXT NOT NULL,
			address TEXT,
			phone TEXT,
			email TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id ` + pk + `,
			name TEXT NOT NULL,
			price REAL DEFAULT 0,
			note TEXT,
			user_id INTEGER,
			delivery_date TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS product_images (
			id ` + pk + `,
			product_id INTEGER NOT NULL,
			image_path TEXT NOT NULL,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			id ` + pk + `,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			status TEXT DEFAULT 'Pending',
			total_amount REAL DEFAULT 0,
			signature_path TEXT,
			notes TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_items (
			id ` + pk + `,
			delivery_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER DEFAULT 1,
			unit_price REAL DEFAULT 0,
			FOREIGN KEY (delivery_id) REFERENCES deliveries(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
	}
}

// migration is one forward-only, additive schema change. Versions are
// recorded in schema_migrations; an already-applied version is skipped
// without touching the store.
type migration struct {
	Version int
	Name    string
	Stmt    string
}

// Historical column additions, carried from the first schema versions.
var migrations = []migration{
	{1, "products_user_id", "ALTER TABLE products ADD COLUMN user_id INTEGER REFERENCES users(id)"},
	{2, "products_note", "ALTER TABLE products ADD COLUMN note TEXT"},
	{3, "products_delivery_date", "ALTER TABLE products ADD COLUMN delivery_date TEXT"},
}

// Migrate creates the base tables and applies pending additive migrations.
// Only the "column already exists" failure of an ADD COLUMN is masked (the
// base DDL already carries the column for fresh stores); anything else —
// disk errors included — aborts initialization.
func Migrate(db *gorm.DB) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.Dialector.Name() == "postgres" {
		pk = "BIGSERIAL PRIMARY KEY"
	}

	for _, ddl := range tableDDL(pk) {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}

	versionsDDL := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if err := db.Exec(versionsDDL).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied int64
		if err := db.Raw("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&applied).Error; err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if applied > 0 {
			continue
		}

		if err := db.Exec(m.Stmt).Error; err != nil && !isDuplicateColumn(err) {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		if err := db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name).Error; err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// isDuplicateColumn matches the one error an additive migration is allowed
// to ignore. SQLite says "duplicate column name", Postgres "already exists".
func isDuplicateColumn(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists")
}
