package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Scene struct {
	bun.BaseModel `bun:"table:scenes,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     *string   `json:"title"`
	Details   *string   `json:"details"`
	Date      *string   `json:"date"` // YYYY-MM-DD
	Rating    *int      `json:"rating"`
	StudioID  *int      `json:"studio_id"`
	Studio    *Studio   `bun:"rel:belongs-to,join:studio_id=id" json:"studio,omitempty"`
	Organized bool      `bun:",notnull" json:"organized"`
	Code      *string   `json:"code"`
	Director  *string   `json:"director"`
	CoverBlob *string   `json:"cover_blob"` // checksum of a row in blobs
}

// SceneFile links a scene to the media files it was cataloged from.
type SceneFile struct {
	bun.BaseModel `bun:"table:scenes_files,alias:sf"`

	SceneID int   `bun:",pk" json:"scene_id"`
	FileID  int   `bun:",pk" json:"file_id"`
	Primary bool  `bun:"primary,notnull" json:"primary"`
	File    *File `bun:"rel:belongs-to,join:file_id=id" json:"file,omitempty"`
}
