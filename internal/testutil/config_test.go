package testutil

import (
	"net/url"
	"testing"
)

func TestDefaultTestDBConfig(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "")
	t.Setenv("TEST_DB_PORT", "")
	t.Setenv("TEST_DB_USER", "")

	cfg := DefaultTestDBConfig()
	if cfg.Host != "localhost" || cfg.Port != "55432" || cfg.User != "refunds" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("TEST_DB_PORT", "5432")
	if got := DefaultTestDBConfig().Port; got != "5432" {
		t.Fatalf("TEST_DB_PORT not honoured, got %s", got)
	}
}

func TestTestDBConfig_DSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "refunds"}

	u, err := url.Parse(cfg.DSN("t_abc"))
	if err != nil {
		t.Fatalf("parse DSN: %v", err)
	}
	if u.Host != "db:5432" || u.Path != "/refunds" {
		t.Fatalf("unexpected DSN: %s", u)
	}
	if pw, _ := u.User.Password(); pw != "p@ss" {
		t.Fatalf("password not preserved: %q", pw)
	}
	if u.Query().Get("search_path") != "t_abc,public" || u.Query().Get("sslmode") != "disable" {
		t.Fatalf("unexpected query: %s", u.RawQuery)
	}
	if q, _ := url.Parse(cfg.DSN("")); q.Query().Has("search_path") {
		t.Fatalf("search_path should be absent without schema")
	}
}
