package itests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"QrestAPI/internal/db"
)

// testDatabase — одноразовая база под интеграционный прогон. Живёт на
// том же сервере, что и baseDSN, но под именем "test"; админские
// операции идут через базу postgres.
type testDatabase struct {
	name     string
	dsn      string
	adminDSN string
}

// deriveTestDatabase принимает только URL-форму DSN и только локальный
// хост: прогон тестов не должен уметь трогать чужие серверы.
func deriveTestDatabase(baseDSN string) (testDatabase, error) {
	u, err := url.Parse(baseDSN)
	if err != nil {
		return testDatabase{}, fmt.Errorf("parse DSN: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return testDatabase{}, errors.New("only URL DSN supported: postgres://...")
	}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		return testDatabase{}, fmt.Errorf("refuse non-local host for tests: %s", host)
	}

	td := testDatabase{name: "test"}
	u.Path = "/" + td.name
	td.dsn = u.String()
	u.Path = "/postgres"
	td.adminDSN = u.String()
	return td, nil
}

func (td testDatabase) admin(ctx context.Context) (*sql.DB, error) {
	conn, err := sql.Open("pgx", td.adminDSN)
	if err != nil {
		return nil, err
	}
	return conn, conn.PingContext(ctx)
}

func (td testDatabase) create(ctx context.Context) error {
	conn, err := td.admin(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname=$1)`, td.name,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = conn.ExecContext(ctx, `CREATE DATABASE `+quoteIdent(td.name))
	return err
}

func (td testDatabase) drop(ctx context.Context) error {
	conn, err := td.admin(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// DROP DATABASE не проходит, пока к базе висят коннекты
	_, _ = conn.ExecContext(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`, td.name)

	_, err = conn.ExecContext(ctx, `DROP DATABASE IF EXISTS `+quoteIdent(td.name))
	return err
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// repoRoot поднимается от текущего файла до каталога с go.mod.
// Тесты запускают из любого места, на CWD полагаться нельзя.
func repoRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("runtime.Caller failed")
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above " + file)
		}
		dir = parent
	}
}

// SetupAndTeardownTestDB готовит тестовую базу для TestMain: создаёт её,
// накатывает миграции тем же раннером, что и продакшен, и дергает
// initFunc (обычно обёртку над db.InitPostgres) уже на тестовом DSN.
// Возвращённый teardown дропает базу.
func SetupAndTeardownTestDB(baseDSN string, initFunc func(string) error) (teardown func() error, err error) {
	if os.Getenv("APP_ENV") == "production" {
		return nil, errors.New("APP_ENV=production — aborting tests")
	}

	td, err := deriveTestDatabase(baseDSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := td.create(ctx); err != nil {
		return nil, fmt.Errorf("create DB %q: %w (POSTGRES_DSN -> %s); ensure Postgres is running", td.name, err, redactDSN(baseDSN))
	}
	log.Printf("test DB %q created", td.name)

	root, err := repoRoot()
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(td.dsn, filepath.Join(root, "migrations")); err != nil {
		_ = td.drop(ctx)
		return nil, err
	}
	log.Printf("migrations applied to test DB")

	if initFunc != nil {
		if err := initFunc(td.dsn); err != nil {
			_ = td.drop(ctx)
			return nil, fmt.Errorf("init on test DSN: %w (POSTGRES_DSN -> %s)", err, redactDSN(baseDSN))
		}
	}

	teardown = func() error {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer dropCancel()
		return td.drop(dropCtx)
	}
	log.Printf("teardown function ready to drop test DB %q", td.name)
	return teardown, nil
}

// redactDSN прячет пароль перед выводом DSN в сообщение об ошибке.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil || u.User.Username() == "" {
		return dsn
	}
	u.User = url.UserPassword(u.User.Username(), "******")
	return u.String()
}
