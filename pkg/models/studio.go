package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Studio struct {
	bun.BaseModel `bun:"table:studios,alias:st"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	ParentID  *int      `json:"parent_id"`
}
