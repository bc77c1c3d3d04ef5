package itests

// Операции репозитория без собственного HTTP-маршрута (map-патч,
// массовое удаление, containment-поиск, непагинированный список)
// гоняются здесь напрямую через unit of work поверх тестовой базы.

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"QrestAPI/internal/db"
	"QrestAPI/internal/domain"
	"QrestAPI/internal/filter"
	"QrestAPI/internal/model"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/uow"
)

func newQuakeRepo(t *testing.T) (*repository.Repo[domain.Earthquake], *uow.Manager) {
	t.Helper()
	repo, err := repository.New[domain.Earthquake]("earthquakes",
		pagination.NewCodec("itest-cursor-secret"), 200,
		repository.Mapper[domain.Earthquake]{
			Columns: func(e *domain.Earthquake) map[string]any { return e.Columns() },
			Insert:  func(e *domain.Earthquake) map[string]any { return e.InsertColumns() },
		})
	if err != nil {
		t.Fatalf("earthquakes repo: %v", err)
	}
	return repo, uow.NewManager(db.Pool, 5000)
}

func newUserRepo(t *testing.T) (*repository.Repo[domain.User], *uow.Manager) {
	t.Helper()
	repo, err := repository.New[domain.User]("users",
		pagination.NewCodec("itest-cursor-secret"), 200,
		repository.Mapper[domain.User]{
			Columns: func(u *domain.User) map[string]any { return u.Columns() },
			Insert:  func(u *domain.User) map[string]any { return u.InsertColumns() },
		})
	if err != nil {
		t.Fatalf("users repo: %v", err)
	}
	return repo, uow.NewManager(db.Pool, 5000)
}

func Test_Repository_UpdateByID_Patch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, manager := newQuakeRepo(t)
	ids := seedQuakes(t, "itu-", []quakeSeed{
		{externalID: "itu-1", magnitude: f64(5.0), title: "patch target", occurredAt: time.Now().UTC()},
	})
	id := ids[0]

	// Состариваем тех-таймстамп, чтобы увидеть автоподстановку now().
	if _, err := db.Pool.Exec(ctx,
		`UPDATE earthquakes SET last_updated_at = now() - interval '1 hour' WHERE id = $1`, id); err != nil {
		t.Fatalf("age row: %v", err)
	}

	err := manager.Run(ctx, uow.System(), func(sess *uow.Session) error {
		return repo.UpdateByID(ctx, sess, id, map[string]any{
			"magnitude": 6.5,
			"alert":     "red",
			"tsunami":   true,
		})
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}

	var mag float64
	var alert string
	var tsunami, touched bool
	if err := db.Pool.QueryRow(ctx, `
		SELECT magnitude, alert, tsunami, last_updated_at > now() - interval '5 minutes'
		FROM earthquakes WHERE id = $1`, id,
	).Scan(&mag, &alert, &tsunami, &touched); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if mag != 6.5 || alert != "red" || !tsunami {
		t.Fatalf("patch not applied: magnitude=%v alert=%q tsunami=%v", mag, alert, tsunami)
	}
	if !touched {
		t.Fatalf("last_updated_at was not refreshed")
	}

	// Необъявленное поле отклоняется до исполнения запроса.
	err = manager.Run(ctx, uow.System(), func(sess *uow.Session) error {
		return repo.UpdateByID(ctx, sess, id, map[string]any{"depth_miles": 1.0})
	})
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("undeclared patch key: want ErrUnknownField, got %v", err)
	}

	var missing int64
	if err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1000 FROM earthquakes`).Scan(&missing); err != nil {
		t.Fatalf("missing id: %v", err)
	}
	err = manager.Run(ctx, uow.System(), func(sess *uow.Session) error {
		return repo.UpdateByID(ctx, sess, missing, map[string]any{"magnitude": 1.0})
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("missing row: want ErrNotFound, got %v", err)
	}

	// Read-only сессия обрывает мутацию до обращения к базе.
	err = manager.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		return repo.UpdateByID(ctx, sess, id, map[string]any{"magnitude": 1.0})
	})
	if !errors.Is(err, uow.ErrReadOnly) {
		t.Fatalf("read-only patch: want ErrReadOnly, got %v", err)
	}

	t.Logf("✅ map-патч обновил строку, отклонил мусорный ключ и read-only сессию")
}

func Test_Repository_TenantColumnImmutable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, manager := newUserRepo(t)
	orgID, userID := createOrg(t, "Patch Observatory", uniqueEmail("patch-admin"), "Patch Admin")

	// Имя менять можно, колонку арендатора — нет.
	err := manager.Run(ctx, uow.ReadWriteTenant(orgID), func(sess *uow.Session) error {
		return repo.UpdateByID(ctx, sess, userID, map[string]any{"name": "Renamed Admin"})
	})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	var name string
	if err := db.Pool.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, userID).Scan(&name); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if name != "Renamed Admin" {
		t.Fatalf("rename not applied, name=%q", name)
	}

	err = manager.Run(ctx, uow.ReadWriteTenant(orgID), func(sess *uow.Session) error {
		return repo.UpdateByID(ctx, sess, userID, map[string]any{"organization_id": orgID + 1})
	})
	if !errors.Is(err, repository.ErrTenantImmutable) {
		t.Fatalf("tenant column patch: want ErrTenantImmutable, got %v", err)
	}

	t.Logf("✅ скоуп-сессия правит свои поля, но не переносит строку между арендаторами")
}

func Test_Repository_DeleteMany_And_Search(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, manager := newQuakeRepo(t)
	now := time.Now().UTC()
	seedQuakes(t, "itd-", []quakeSeed{
		{externalID: "itd-1", magnitude: f64(5.1), title: "scrub batch one, 10% damage", occurredAt: now},
		{externalID: "itd-2", magnitude: f64(5.6), title: "scrub batch two, 10x marker", occurredAt: now},
		{externalID: "itd-3", magnitude: f64(4.0), title: "scrub keeper", occurredAt: now},
	})

	// Экранирование LIKE: литеральный "10%" не должен вести себя как шаблон.
	var found []domain.Earthquake
	err := manager.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		var inner error
		found, inner = repo.Search(ctx, sess, "title", "10%", 10)
		return inner
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ExternalID != "itd-1" {
		t.Fatalf("search %q: want exactly itd-1, got %d rows", "10%", len(found))
	}

	err = manager.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		_, inner := repo.Search(ctx, sess, "magnitude", "5", 10)
		return inner
	})
	if !errors.Is(err, model.ErrOperatorNotAllowed) {
		t.Fatalf("search on float field: want ErrOperatorNotAllowed, got %v", err)
	}

	// Массовое удаление строго под фильтрами.
	var deleted int64
	err = manager.Run(ctx, uow.System(), func(sess *uow.Session) error {
		var inner error
		deleted, inner = repo.DeleteMany(ctx, sess, []filter.Token{
			{Field: "external_id", Op: filter.OpLike, RawValue: "itd-%", HasValue: true},
			{Field: "magnitude", Op: filter.OpGte, RawValue: "5", HasValue: true},
		})
		return inner
	})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("DeleteMany: want 2 rows, got %d", deleted)
	}
	var left int64
	if err := db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM earthquakes WHERE external_id LIKE 'itd-%'`).Scan(&left); err != nil {
		t.Fatalf("count leftovers: %v", err)
	}
	if left != 1 {
		t.Fatalf("want 1 survivor, got %d", left)
	}

	err = manager.Run(ctx, uow.System(), func(sess *uow.Session) error {
		_, inner := repo.DeleteMany(ctx, sess, nil)
		return inner
	})
	if err == nil || !strings.Contains(err.Error(), "unfiltered") {
		t.Fatalf("unfiltered delete: want refusal, got %v", err)
	}

	t.Logf("✅ поиск экранирует шаблон, удаление требует предикат и бьёт точно по нему")
}

func Test_Repository_List_MultiSort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, manager := newQuakeRepo(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedQuakes(t, "itl-", []quakeSeed{
		{externalID: "itl-1", magnitude: f64(5.0), title: "multi sort a", occurredAt: base.Add(2 * time.Hour)},
		{externalID: "itl-2", magnitude: f64(6.0), title: "multi sort b", occurredAt: base},
		{externalID: "itl-3", magnitude: f64(5.0), title: "multi sort c", occurredAt: base.Add(time.Hour)},
	})

	// Непагинированный List принимает несколько сортировок сразу.
	var rows []domain.Earthquake
	err := manager.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		var inner error
		rows, inner = repo.List(ctx, sess,
			[]filter.Token{{Field: "external_id", Op: filter.OpLike, RawValue: "itl-%", HasValue: true}},
			[]filter.Sort{{Field: "magnitude", Desc: true}, {Field: "occurred_at"}},
			0)
		return inner
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := make([]string, len(rows))
	for i := range rows {
		got[i] = rows[i].ExternalID
	}
	want := []string{"itl-2", "itl-3", "itl-1"}
	if len(got) != len(want) {
		t.Fatalf("List: want %d rows, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List order: want %v, got %v", want, got)
		}
	}

	err = manager.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		_, inner := repo.List(ctx, sess, nil, []filter.Sort{{Field: "depth_miles"}}, 0)
		return inner
	})
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("sort by undeclared field: want ErrUnknownField, got %v", err)
	}

	t.Logf("✅ List упорядочивает по двум полям и отвергает необъявленную сортировку")
}
