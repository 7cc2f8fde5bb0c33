// Package artifact persists harvest results as JSON documents named after
// the target position.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go-hiring-harvester/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const filePrefix = "linkedin_posts_"

var (
	// ErrNotFound is returned by Read when no artifact exists for the position.
	ErrNotFound = errors.New("artifact not found")
	// ErrNotSaved wraps every Write failure; nothing of the run is on disk.
	ErrNotSaved = errors.New("artifact not saved")
)

// Slug strips diacritics, lowercases and joins the words of position with
// underscores. Anything but letters, digits and '-' separates words, so the
// slug is always a single path element.
func Slug(position string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, position)
	if err != nil {
		result = position
	}
	words := strings.FieldsFunc(strings.ToLower(result), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	return strings.Join(words, "_")
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

func (s *Store) Path(position string) string {
	return filepath.Join(s.dir, filePrefix+Slug(position)+".json")
}

// Write replaces the artifact for result.TargetPosition. Readers never see
// a half-written file.
func (s *Store) Write(ctx context.Context, result *models.HarvestResult) error {
	if err := s.write(ctx, result); err != nil {
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, result *models.HarvestResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal harvest result: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.Path(result.TargetPosition)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	log.Printf("💾 Saved %d posts to %s", len(result.Posts), path)
	return nil
}

func (s *Store) Read(position string) (*models.HarvestResult, error) {
	path := s.Path(position)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run the harvest for %q first)", ErrNotFound, path, position)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var result models.HarvestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &result, nil
}
