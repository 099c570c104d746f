package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migrateLogger struct{ log *logrus.Logger }

func (l migrateLogger) Printf(format string, v ...any) { l.log.Infof("migrate: "+format, v...) }
func (l migrateLogger) Verbose() bool                  { return l.log.IsLevelEnabled(logrus.DebugLevel) }

// newMigrator: 専用の接続プールで開く。mysql ドライバは接続を1本占有し、
// Close でプールごと閉じるため、アプリのプールとは共有しない。
func newMigrator(c DatabaseConfig, log *logrus.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	conn, err := sql.Open(driverName, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	driver, err := mysql.WithInstance(conn, &mysql.Config{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	m.Log = migrateLogger{log: log}
	return m, nil
}

func closeMigrator(m *migrate.Migrate, log *logrus.Logger) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		log.WithFields(logrus.Fields{"source": srcErr, "database": dbErr}).Warn("close migrator")
	}
}

// Migrate: 未適用のマイグレーションをすべて適用
func Migrate(c DatabaseConfig, log *logrus.Logger) error {
	m, err := newMigrator(c, log)
	if err != nil {
		return err
	}
	defer closeMigrator(m, log)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("database migrations completed")
	return nil
}

// MigrateDown: steps 件だけ戻す
func MigrateDown(c DatabaseConfig, log *logrus.Logger, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be > 0")
	}
	m, err := newMigrator(c, log)
	if err != nil {
		return err
	}
	defer closeMigrator(m, log)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

// UpStatements: up マイグレーションを文単位で順に返す（テスト用スキーマ構築に使う）
func UpStatements() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		raw, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		for _, stmt := range strings.Split(string(raw), ";") {
			if s := strings.TrimSpace(stmt); s != "" {
				out = append(out, s)
			}
		}
	}
	return out, nil
}
