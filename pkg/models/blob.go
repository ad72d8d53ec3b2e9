package models

import (
	"github.com/uptrace/bun"
)

// Blob is a content-addressed binary object keyed by its md5 checksum. Blob
// is nil when the bytes live in the on-disk blob store instead of the row.
type Blob struct {
	bun.BaseModel `bun:"table:blobs,alias:b"`

	Checksum string `bun:",pk" json:"checksum"`
	Blob     []byte `bun:",nullzero" json:"-"`
}
