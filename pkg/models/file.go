package models

import (
	"time"

	"github.com/uptrace/bun"
)

// File is a media file discovered by the catalog scanner.
type File struct {
	bun.BaseModel `bun:"table:files,alias:f"`

	ID             int       `bun:",pk,nullzero" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Basename       string    `bun:",nullzero" json:"basename"`
	ParentFolderID int       `bun:",nullzero" json:"parent_folder_id"`
	Size           int64     `bun:",notnull" json:"size"`
	ModTime        time.Time `json:"mod_time"`
}
