package domain

import "time"

// User принадлежит организации; is_system помечает служебные учётки,
// создаваемые вместе с организацией.
type User struct {
	ID             int64     `db:"id" json:"id"`
	OrganizationID int64     `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	IsSystem       bool      `db:"is_system" json:"is_system"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	LastUpdatedAt  time.Time `db:"last_updated_at" json:"last_updated_at"`
}

func (u *User) Columns() map[string]any {
	return map[string]any{
		"id":              u.ID,
		"organization_id": u.OrganizationID,
		"name":            u.Name,
		"email":           u.Email,
		"is_system":       u.IsSystem,
		"created_at":      u.CreatedAt,
		"last_updated_at": u.LastUpdatedAt,
	}
}

func (u *User) InsertColumns() map[string]any {
	m := u.Columns()
	delete(m, "id")
	delete(m, "created_at")
	delete(m, "last_updated_at")
	return m
}
