package service

import (
	"context"
	"errors"
	"fmt"

	"QrestAPI/internal/domain"
	"QrestAPI/internal/filter"
	"QrestAPI/internal/pagination"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/uow"
)

// ErrSelfDelete — попытка пользователя удалить самого себя.
var ErrSelfDelete = errors.New("you can't delete yourself")

// UserService управляет пользователями внутри организации.
type UserService struct {
	uow   *uow.Manager
	users *repository.Repo[domain.User]
}

func NewUserService(m *uow.Manager, users *repository.Repo[domain.User]) *UserService {
	return &UserService{uow: m, users: users}
}

// GetSelf ищет пользователя по email токена без привязки к арендатору:
// вызывающий мог ещё не завести организацию.
func (s *UserService) GetSelf(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.uow.Run(ctx, uow.SystemReadOnly(), func(sess *uow.Session) error {
		found, err := s.users.ListByField(ctx, sess, "email", []any{email})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("%w: user email=%s", repository.ErrNotFound, email)
		}
		user = &found[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List — страница пользователей организации. Служебные учётки скрыты.
func (s *UserService) List(ctx context.Context, orgID int64, p repository.ListParams) (*pagination.Page[domain.User], error) {
	p.Filters = append(p.Filters, filter.Token{Field: "is_system", Op: filter.OpEq, RawValue: "false", HasValue: true})

	var page *pagination.Page[domain.User]
	err := s.uow.Run(ctx, uow.ReadOnlyTenant(orgID), func(sess *uow.Session) error {
		var err error
		page, err = s.users.ListPage(ctx, sess, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Delete удаляет пользователя своей организации. Чужие и несуществующие
// id дают not found, себя удалить нельзя.
func (s *UserService) Delete(ctx context.Context, orgID, callerID, targetID int64) error {
	if targetID == callerID {
		return ErrSelfDelete
	}
	return s.uow.Run(ctx, uow.ReadWriteTenant(orgID), func(sess *uow.Session) error {
		return s.users.DeleteByID(ctx, sess, targetID)
	})
}
