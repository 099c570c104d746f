package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const (
	driverName = "mysql"

	// DateLayout は出席日・会議日の保存形式（DATE相当の文字列）
	DateLayout = "2006-01-02"
	// TimeLayout はタイムスタンプ列の保存形式（UTC固定・辞書順 = 時系列順）
	TimeLayout = "2006-01-02 15:04:05.000000"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"     split_words:"true"`
	Port     int    `yaml:"port"     split_words:"true"`
	Username string `yaml:"user"     split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DBName   string `yaml:"dbname"   split_words:"true"`
}

// DSN: マイグレーションは1ファイル複数文なので multiStatements を有効にする
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC&multiStatements=true",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, c.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// 接続プール
	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
