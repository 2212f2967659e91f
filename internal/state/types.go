package state

import (
	"errors"
	"time"

	"github.com/thruflo/pixl/internal/sprite"
)

// ErrSpriteNotFound is returned when no stored sprite matches a reference.
var ErrSpriteNotFound = errors.New("sprite not found")

// ErrAmbiguousSprite is returned when a name matches more than one sprite.
var ErrAmbiguousSprite = errors.New("sprite reference is ambiguous")

// Summary describes a stored sprite without its pixel data.
type Summary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Frames     int       `json:"frames"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Path       string    `json:"-"`
}

// ExportRecord is one entry of exports.json.
type ExportRecord struct {
	SpriteID   string    `json:"spriteId"`
	Format     string    `json:"format"`
	Path       string    `json:"path"`
	Scale      int       `json:"scale"`
	Frames     int       `json:"frames"`
	ExportedAt time.Time `json:"exportedAt"`
}

// spriteFile is the on-disk document. Older files stored a single grid at
// the top level instead of frames; it seeds the first frame on repair.
type spriteFile struct {
	sprite.Sprite
	Pixels sprite.Grid `json:"pixels,omitempty"`
}

func summarize(s *sprite.Sprite, path string) Summary {
	return Summary{
		ID:         s.ID,
		Name:       s.Name,
		Width:      s.Width,
		Height:     s.Height,
		Frames:     len(s.Frames),
		ModifiedAt: s.ModifiedAt,
		Path:       path,
	}
}
