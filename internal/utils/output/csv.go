package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/law-makers/tutor-scraper/pkg/models"
)

// Schema is an ordered column list and the projection of a record onto it.
type Schema struct {
	Name    string
	Columns []string
	Row     func(models.TutorRecord) []string
}

// FullSchema is the complete tutor profile export.
var FullSchema = Schema{
	Name:    "full",
	Columns: []string{"URL", "Title", "Description", "Teaching", "Levels", "Ages", "Genres", "Available"},
	Row: func(r models.TutorRecord) []string {
		return []string{r.URL, r.Name, r.Description, r.Teaching, r.Levels, r.Ages, r.Genres, r.Available}
	},
}

// IndexSchema is the name and URL listing.
var IndexSchema = Schema{
	Name:    "index",
	Columns: []string{"Name", "URL"},
	Row: func(r models.TutorRecord) []string {
		return []string{r.Name, r.URL}
	},
}

// EncodeCSV writes a header row followed by one row per record.
func EncodeCSV(w io.Writer, data models.Dataset, schema Schema) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(schema.Columns); err != nil {
		return err
	}
	rows := lo.Map(data, func(r models.TutorRecord, _ int) []string {
		return schema.Row(r)
	})
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// SaveCSV writes data to dir/filename, creating dir if needed. The file is
// staged next to the target and renamed over it, so readers never see a
// partial file. Returns the written path.
func SaveCSV(data models.Dataset, schema Schema, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}
	target := filepath.Join(dir, filename)

	tmp, err := os.CreateTemp(dir, "."+filename+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeCSV(tmp, data, schema); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode %s: %w", target, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("replace %s: %w", target, err)
	}

	return target, nil
}
