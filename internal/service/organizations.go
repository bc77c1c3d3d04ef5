package service

import (
	"context"
	"errors"
	"fmt"

	"QrestAPI/internal/domain"
	"QrestAPI/internal/repository"
	"QrestAPI/internal/uow"
)

// ErrEmailTaken — email вызывающего уже занят существующим пользователем.
var ErrEmailTaken = errors.New("user with that email already exists")

// OrganizationService управляет организациями-арендаторами.
type OrganizationService struct {
	uow   *uow.Manager
	orgs  *repository.Repo[domain.Organization]
	users *repository.Repo[domain.User]
}

func NewOrganizationService(m *uow.Manager, orgs *repository.Repo[domain.Organization], users *repository.Repo[domain.User]) *OrganizationService {
	return &OrganizationService{uow: m, orgs: orgs, users: users}
}

// CreateOrganizationParams: имя организации плюс имя и email вызывающего
// из токена — он становится первым пользователем.
type CreateOrganizationParams struct {
	Name      string
	UserName  string
	UserEmail string
}

// Create заводит организацию и её первого пользователя одной
// транзакцией. Вызывающий ещё без арендатора, сессия системная.
func (s *OrganizationService) Create(ctx context.Context, p CreateOrganizationParams) (*domain.Organization, error) {
	userName := p.UserName
	if userName == "" {
		userName = p.UserEmail
	}

	var created *domain.Organization
	err := s.uow.Run(ctx, uow.System(), func(sess *uow.Session) error {
		existing, err := s.users.ListByField(ctx, sess, "email", []any{p.UserEmail})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: %s", ErrEmailTaken, p.UserEmail)
		}

		org := domain.Organization{Name: p.Name}
		orgID, err := s.orgs.Insert(ctx, sess, &org)
		if err != nil {
			return err
		}

		user := domain.User{OrganizationID: orgID, Name: userName, Email: p.UserEmail}
		if _, err := s.users.Insert(ctx, sess, &user); err != nil {
			return err
		}

		created, err = s.orgs.GetByID(ctx, sess, orgID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetSelf — организация вызывающего.
func (s *OrganizationService) GetSelf(ctx context.Context, orgID int64) (*domain.Organization, error) {
	var org *domain.Organization
	err := s.uow.Run(ctx, uow.ReadOnlyTenant(orgID), func(sess *uow.Session) error {
		var err error
		org, err = s.orgs.GetByID(ctx, sess, orgID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// DeleteSelf удаляет организацию вызывающего; её пользователи уходят
// каскадом по внешнему ключу. Возвращает удалённую строку.
func (s *OrganizationService) DeleteSelf(ctx context.Context, orgID int64) (*domain.Organization, error) {
	var org *domain.Organization
	err := s.uow.Run(ctx, uow.ReadWriteTenant(orgID), func(sess *uow.Session) error {
		var err error
		org, err = s.orgs.GetByID(ctx, sess, orgID)
		if err != nil {
			return err
		}
		return s.orgs.DeleteByID(ctx, sess, orgID)
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}
