package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Folder struct {
	bun.BaseModel `bun:"table:folders,alias:fo"`

	ID             int        `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Path           string     `bun:",nullzero" json:"path"`
	ParentFolderID *int       `json:"parent_folder_id"`
	ModTime        *time.Time `json:"mod_time"`
}
