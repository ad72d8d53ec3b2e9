package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `bun:",nullzero" json:"name"`
	SceneCount int       `bun:",scanonly" json:"scene_count"`
}

type SceneTag struct {
	bun.BaseModel `bun:"table:scenes_tags,alias:stg"`

	SceneID int  `bun:",pk" json:"scene_id"`
	TagID   int  `bun:",pk" json:"tag_id"`
	Tag     *Tag `bun:"rel:belongs-to,join:tag_id=id" json:"tag,omitempty"`
}
