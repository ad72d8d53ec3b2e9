package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Gallery struct {
	bun.BaseModel `bun:"table:galleries,alias:ga"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FolderID  *int      `json:"folder_id"`
	Title     *string   `json:"title"`
}

type SceneGallery struct {
	bun.BaseModel `bun:"table:scenes_galleries,alias:sg"`

	SceneID   int `bun:",pk" json:"scene_id"`
	GalleryID int `bun:",pk" json:"gallery_id"`
}
