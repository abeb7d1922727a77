package db

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/pillbox/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesAllEmbeddedMigrations(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pillbox-clean.db")
	database := openSQLiteForBootstrapTest(t, databasePath)

	columns := loadTableColumns(t, database, "medications")
	if _, exists := columns["unit"]; !exists {
		t.Fatal("expected medications.unit column to exist after migrations")
	}
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteUpgradesInitOnlySchema(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pillbox-legacy.db")
	seedSchemaWithoutMigrationRecords(t, databasePath, false)

	database := openSQLiteForBootstrapTest(t, databasePath)

	columns := loadTableColumns(t, database, "medications")
	if _, exists := columns["unit"]; !exists {
		t.Fatal("expected medications.unit column added on upgrade")
	}
	assertAllEmbeddedMigrationsApplied(t, database)

	var migrated struct {
		Name string `gorm:"column:name"`
		Unit string `gorm:"column:unit"`
	}
	if err := database.
		Table("medications").
		Select("name", "unit").
		Where("name = ?", "Legacy Aspirin").
		First(&migrated).Error; err != nil {
		t.Fatalf("load migrated medication: %v", err)
	}
	if migrated.Unit != "" {
		t.Fatalf("expected unit default to be empty, got %q", migrated.Unit)
	}
}

func TestOpenSQLiteSkipsAddColumnWhenColumnAlreadyExists(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pillbox-prepatched.db")
	seedSchemaWithoutMigrationRecords(t, databasePath, true)

	database := openSQLiteForBootstrapTest(t, databasePath)

	assertAllEmbeddedMigrationsApplied(t, database)

	// The hand-patched column value must survive the recorded-but-skipped
	// ADD COLUMN statement.
	var prepatched struct {
		Unit string `gorm:"column:unit"`
	}
	if err := database.
		Table("medications").
		Select("unit").
		Where("name = ?", "Legacy Aspirin").
		First(&prepatched).Error; err != nil {
		t.Fatalf("load prepatched medication: %v", err)
	}
	if prepatched.Unit != "tablets" {
		t.Fatalf("expected existing unit value preserved, got %q", prepatched.Unit)
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "pillbox-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func openSQLiteForBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

// seedSchemaWithoutMigrationRecords builds a database that predates the
// schema_migrations table: the init schema applied by hand, optionally with
// the unit column already patched in.
func seedSchemaWithoutMigrationRecords(t *testing.T, databasePath string, withUnitColumn bool) {
	t.Helper()

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", databasePath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy sqlite: %v", err)
	}

	initSQL, err := fs.ReadFile(embeddedmigrations.Files, "0001_init.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	if err := database.Exec(string(initSQL)).Error; err != nil {
		t.Fatalf("apply init migration: %v", err)
	}

	if withUnitColumn {
		if err := database.Exec(`ALTER TABLE medications ADD COLUMN unit TEXT NOT NULL DEFAULT ''`).Error; err != nil {
			t.Fatalf("patch unit column: %v", err)
		}
		if err := database.Exec(
			`INSERT INTO medications (name, scheduled_time, supply, low_supply_threshold, unit) VALUES (?, CURRENT_TIMESTAMP, ?, ?, ?)`,
			"Legacy Aspirin", 30, 5, "tablets",
		).Error; err != nil {
			t.Fatalf("insert prepatched medication: %v", err)
		}
	} else {
		if err := database.Exec(
			`INSERT INTO medications (name, scheduled_time, supply, low_supply_threshold) VALUES (?, CURRENT_TIMESTAMP, ?, ?)`,
			"Legacy Aspirin", 30, 5,
		).Error; err != nil {
			t.Fatalf("insert legacy medication: %v", err)
		}
	}

	if database.Migrator().HasTable("schema_migrations") {
		t.Fatal("expected seeded schema to not have schema_migrations table")
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open legacy sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close legacy sql db: %v", err)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expectedVersions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		expectedVersions = append(expectedVersions, migration.Version)
	}

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	actualVersions := make([]string, 0, len(rows))
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}
