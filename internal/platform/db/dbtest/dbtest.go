// Package dbtest はテスト用にインメモリSQLiteへ本番と同じスキーマを構築する。
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/glebarez/go-sqlite"

	"KMA-backend/internal/platform/db"
)

// Open: スキーマ適用済みのインメモリDBを返す。
// :memory: は接続ごとに別DBになるので接続は1本に固定する（Tx内では tx 以外を使わないこと）。
func Open(t testing.TB) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	stmts, err := db.UpStatements()
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	ctx := context.Background()
	for _, s := range stmts {
		if _, err := conn.ExecContext(ctx, s); err != nil {
			t.Fatalf("apply migration %q: %v", s, err)
		}
	}
	return conn
}
