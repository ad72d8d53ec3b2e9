package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Performer struct {
	bun.BaseModel `bun:"table:performers,alias:p"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}

type ScenePerformer struct {
	bun.BaseModel `bun:"table:performers_scenes,alias:ps"`

	PerformerID int        `bun:",pk" json:"performer_id"`
	SceneID     int        `bun:",pk" json:"scene_id"`
	Performer   *Performer `bun:"rel:belongs-to,join:performer_id=id" json:"performer,omitempty"`
}
