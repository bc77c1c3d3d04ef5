package uow

import (
	"context"
	"errors"
	"fmt"

	"QrestAPI/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrReadOnly возвращается при попытке мутации в read-only сессии.
var ErrReadOnly = errors.New("read-only session")

// AccessMode определяет, что сессии позволено делать с данными.
type AccessMode int

const (
	ReadOnly AccessMode = iota
	ReadWrite
)

// TenantContext несёт арендатора и режим доступа текущего запроса.
// Unscoped снимает фильтр по арендатору для служебных операций
// (инжест, административные выборки).
type TenantContext struct {
	OrganizationID int64
	Mode           AccessMode
	Unscoped       bool
}

func ReadOnlyTenant(orgID int64) TenantContext {
	return TenantContext{OrganizationID: orgID, Mode: ReadOnly}
}

func ReadWriteTenant(orgID int64) TenantContext {
	return TenantContext{OrganizationID: orgID, Mode: ReadWrite}
}

// System — служебный контекст без арендатора.
func System() TenantContext {
	return TenantContext{Mode: ReadWrite, Unscoped: true}
}

// SystemReadOnly — контекст без арендатора только для чтения:
// публичные выборки по ресурсам без колонки арендатора.
func SystemReadOnly() TenantContext {
	return TenantContext{Mode: ReadOnly, Unscoped: true}
}

// Session — одна транзакция с привязанным TenantContext. Репозитории
// ходят в базу только через неё.
type Session struct {
	tx pgx.Tx
	tc TenantContext
}

func (s *Session) Tenant() TenantContext { return s.tc }

// RequireWrite отсекает мутации до обращения к базе.
func (s *Session) RequireWrite() error {
	if s.tc.Mode != ReadWrite {
		return ErrReadOnly
	}
	return nil
}

func (s *Session) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.tx.Query(ctx, sql, args...)
}

func (s *Session) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.tx.QueryRow(ctx, sql, args...)
}

func (s *Session) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.tx.Exec(ctx, sql, args...)
}

// Manager открывает транзакции на пуле и ведёт их жизненный цикл.
type Manager struct {
	pool               *pgxpool.Pool
	statementTimeoutMS int64
}

func NewManager(pool *pgxpool.Pool, statementTimeoutMS int64) *Manager {
	return &Manager{pool: pool, statementTimeoutMS: statementTimeoutMS}
}

// Run исполняет body в одной транзакции. Read-only контекст получает
// read-only транзакцию на уровне Postgres, вторым поясом к проверке
// RequireWrite. Ошибка body откатывает транзакцию, nil — коммитит.
func (m *Manager) Run(ctx context.Context, tc TenantContext, body func(*Session) error) error {
	opts := pgx.TxOptions{}
	if tc.Mode == ReadOnly {
		opts.AccessMode = pgx.ReadOnly
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", db.ErrUnavailable, err)
	}
	// Rollback после коммита — no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if m.statementTimeoutMS > 0 {
		// SET LOCAL живёт до конца транзакции; bind-параметры тут
		// не поддерживаются, значение всегда числовое.
		set := fmt.Sprintf("SET LOCAL statement_timeout = %d", m.statementTimeoutMS)
		if _, err := tx.Exec(ctx, set); err != nil {
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := body(&Session{tx: tx, tc: tc}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
