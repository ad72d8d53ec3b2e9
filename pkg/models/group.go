package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Group is a collection of scenes, e.g. a movie series.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}

type GroupScene struct {
	bun.BaseModel `bun:"table:groups_scenes,alias:gs"`

	GroupID    int  `bun:",pk" json:"group_id"`
	SceneID    int  `bun:",pk" json:"scene_id"`
	SceneIndex *int `json:"scene_index"`
}
