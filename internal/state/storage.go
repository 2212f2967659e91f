package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thruflo/pixl/internal/logging"
	"github.com/thruflo/pixl/internal/sprite"
)

// Store handles local sprite storage operations.
type Store struct {
	basePath string
	log      *logging.Logger
}

// NewStore creates a new Store with the given base path.
// The base path should be the project root; sprites will be stored in .pixl/sprites/.
func NewStore(basePath string) *Store {
	return &Store{basePath: basePath, log: logging.With("component", "state")}
}

// BasePath returns the project root.
func (s *Store) BasePath() string { return s.basePath }

// spritesDir returns the path to the sprites directory.
func (s *Store) spritesDir() string {
	return filepath.Join(s.basePath, ".pixl", "sprites")
}

// SpritePath returns the file path for a sprite id.
func (s *Store) SpritePath(id string) string {
	return filepath.Join(s.spritesDir(), sanitizeID(id)+".json")
}

// sanitizeID converts an id to a safe file name.
// Replaces path separators with "-" to avoid nested directories.
func sanitizeID(id string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(id)
}

// SaveSprite writes the sprite to .pixl/sprites/<id>.json. The file is
// written to a temp file in the same directory and renamed into place, so a
// crash never leaves a truncated document.
func (s *Store) SaveSprite(sp *sprite.Sprite) error {
	if sp == nil {
		return fmt.Errorf("failed to save sprite: nil sprite")
	}
	if sp.ID == "" {
		return fmt.Errorf("failed to save sprite %q: missing id", sp.Name)
	}

	dir := s.spritesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sprites directory: %w", err)
	}

	data, err := json.MarshalIndent(sp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sprite: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sprite file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write sprite file: %w", err)
	}
	if err := os.Rename(tmpName, s.SpritePath(sp.ID)); err != nil {
		return fmt.Errorf("failed to replace sprite file: %w", err)
	}

	s.log.Debug("saved sprite", "sprite", sp.ID, "frames", len(sp.Frames))
	return nil
}

// LoadSprite reads the sprite with the given id and repairs it. The report
// lists every repair applied; the returned sprite always satisfies the
// frame and layer invariants.
func (s *Store) LoadSprite(id string) (*sprite.Sprite, *sprite.Report, error) {
	sp, r, err := s.LoadSpriteFile(s.SpritePath(id))
	if errors.Is(err, ErrSpriteNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrSpriteNotFound, id)
	}
	return sp, r, err
}

// LoadSpriteFile reads and repairs a sprite document at path.
func (s *Store) LoadSpriteFile(path string) (*sprite.Sprite, *sprite.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSpriteNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to read sprite file: %w", err)
	}

	sp, r, err := DecodeSprite(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse sprite file %s: %w", path, err)
	}
	if !r.OK() {
		s.log.Warn("repaired sprite on load", "path", path, "issues", len(r.Issues))
	}
	return sp, r, nil
}

// DecodeSprite parses a sprite document and repairs it. Only input that is
// not valid JSON is an error; mistyped fields are dropped, and malformed
// frames, layers and grids are repaired and reported.
func DecodeSprite(data []byte) (*sprite.Sprite, *sprite.Report, error) {
	var doc spriteFile
	if err := json.Unmarshal(data, &doc); err != nil {
		// A field of the wrong type leaves the rest of the document decoded.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, nil, err
		}
		logging.Warn("ignored mistyped sprite field", "field", typeErr.Field, "error", err)
	}
	sp := doc.Sprite
	r := sprite.RepairSprite(&sp, doc.Pixels)
	return &sp, r, nil
}

// ListSprites returns summaries of every readable sprite, sorted by name.
// Files that cannot be read or parsed are skipped.
func (s *Store) ListSprites() ([]Summary, error) {
	dir := s.spritesDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("failed to read sprites directory: %w", err)
	}

	sprites := []Summary{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue // Skip unreadable files
		}
		sp, _, err := DecodeSprite(data)
		if err != nil {
			s.log.Warn("skipped unparseable sprite file", "path", path, "error", err)
			continue
		}
		sprites = append(sprites, summarize(sp, path))
	}

	sort.SliceStable(sprites, func(i, j int) bool {
		if sprites[i].Name == sprites[j].Name {
			return sprites[i].ID < sprites[j].ID
		}
		return sprites[i].Name < sprites[j].Name
	})
	return sprites, nil
}

// DeleteSprite removes the sprite file.
func (s *Store) DeleteSprite(id string) error {
	if err := os.Remove(s.SpritePath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSpriteNotFound, id)
		}
		return fmt.Errorf("failed to delete sprite file: %w", err)
	}
	return nil
}

// SpriteExists checks if a sprite file exists.
func (s *Store) SpriteExists(id string) bool {
	_, err := os.Stat(s.SpritePath(id))
	return err == nil
}

// ResolveSprite loads a sprite by file path, id, or unique name, in that order.
func (s *Store) ResolveSprite(ref string) (*sprite.Sprite, *sprite.Report, error) {
	if ref == "" {
		return nil, nil, fmt.Errorf("%w: empty reference", ErrSpriteNotFound)
	}
	if strings.HasSuffix(ref, ".json") {
		if _, err := os.Stat(ref); err == nil {
			return s.LoadSpriteFile(ref)
		}
	}
	if s.SpriteExists(ref) {
		return s.LoadSprite(ref)
	}

	list, err := s.ListSprites()
	if err != nil {
		return nil, nil, err
	}
	var matches []Summary
	for _, sum := range list {
		if sum.Name == ref {
			matches = append(matches, sum)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil, fmt.Errorf("%w: %s", ErrSpriteNotFound, ref)
	case 1:
		return s.LoadSpriteFile(matches[0].Path)
	default:
		return nil, nil, fmt.Errorf("%w: %d sprites named %q", ErrAmbiguousSprite, len(matches), ref)
	}
}

// exportsPath returns the path to the export log.
func (s *Store) exportsPath() string {
	return filepath.Join(s.basePath, ".pixl", "exports.json")
}

// LoadExports reads exports.json.
func (s *Store) LoadExports() ([]ExportRecord, error) {
	data, err := os.ReadFile(s.exportsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No exports yet
		}
		return nil, fmt.Errorf("failed to read exports file: %w", err)
	}

	var records []ExportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse exports file: %w", err)
	}
	return records, nil
}

// AppendExport adds an entry to exports.json.
func (s *Store) AppendExport(rec ExportRecord) error {
	records, err := s.LoadExports()
	if err != nil {
		return err
	}
	records = append(records, rec)

	if err := os.MkdirAll(filepath.Dir(s.exportsPath()), 0o755); err != nil {
		return fmt.Errorf("failed to create .pixl directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal exports: %w", err)
	}
	if err := os.WriteFile(s.exportsPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write exports file: %w", err)
	}
	return nil
}
