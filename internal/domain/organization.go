package domain

import "time"

// Organization — корневой ресурс арендатора; её id и есть tenant id.
type Organization struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at" json:"last_updated_at"`
}

func (o *Organization) Columns() map[string]any {
	return map[string]any{
		"id":              o.ID,
		"name":            o.Name,
		"created_at":      o.CreatedAt,
		"last_updated_at": o.LastUpdatedAt,
	}
}

func (o *Organization) InsertColumns() map[string]any {
	m := o.Columns()
	delete(m, "id")
	delete(m, "created_at")
	delete(m, "last_updated_at")
	return m
}
