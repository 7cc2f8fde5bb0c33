package artifact

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go-hiring-harvester/internal/models"
)

var csvHeader = []string{"post_id", "author", "posted_at", "body_text", "contact_addresses", "outbound_links"}

// WriteCSV writes one row per post. Multi-valued columns are joined with
// "; ".
func WriteCSV(w io.Writer, result *models.HarvestResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range result.Posts {
		row := []string{
			p.PostID,
			p.Author,
			p.PostedAt,
			p.BodyText,
			strings.Join(p.ContactAddresses, "; "),
			strings.Join(p.OutboundLinks, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) CSVPath(position string) string {
	return filepath.Join(s.dir, filePrefix+Slug(position)+".csv")
}

// ExportCSV converts the stored artifact for position into a CSV file next
// to it and returns the file's path.
func (s *Store) ExportCSV(position string) (string, error) {
	result, err := s.Read(position)
	if err != nil {
		return "", err
	}

	path := s.CSVPath(position)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, result); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}

	log.Printf("📄 Exported %d posts to %s", len(result.Posts), path)
	return path, nil
}
