package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/law-makers/tutor-scraper/pkg/models"
)

var sample = models.Dataset{
	{
		URL:         "https://x.test/tutor/1",
		Name:        "Jane Doe",
		Description: "Line one\nLine \"two\", with comma",
		Teaching:    "Piano, Guitar",
	},
	models.Placeholder("https://x.test/tutor/2", models.DescFetchFailed),
}

func TestEncodeCSV_FullRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, sample, FullSchema); err != nil {
		t.Fatalf("EncodeCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	want := [][]string{
		{"URL", "Title", "Description", "Teaching", "Levels", "Ages", "Genres", "Available"},
		{"https://x.test/tutor/1", "Jane Doe", "Line one\nLine \"two\", with comma", "Piano, Guitar", "", "", "", ""},
		{"https://x.test/tutor/2", "tutor_2", "Failed to fetch content", "", "", "", "", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeCSV_Index(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, sample, IndexSchema); err != nil {
		t.Fatalf("EncodeCSV failed: %v", err)
	}
	want := "Name,URL\nJane Doe,https://x.test/tutor/1\ntutor_2,https://x.test/tutor/2\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestEncodeCSV_EmptyDataset(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, nil, IndexSchema); err != nil {
		t.Fatalf("EncodeCSV failed: %v", err)
	}
	if buf.String() != "Name,URL\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestSaveCSV_CreatesDirectoryAndOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	path, err := SaveCSV(sample, FullSchema, dir, "tutors.csv")
	if err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}
	if path != filepath.Join(dir, "tutors.csv") {
		t.Errorf("unexpected path %s", path)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if _, err := SaveCSV(sample, FullSchema, dir, "tutors.csv"); err != nil {
		t.Fatalf("second SaveCSV failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected identical output across runs")
	}

	if _, err := SaveCSV(sample[:1], IndexSchema, dir, "tutors.csv"); err != nil {
		t.Fatalf("third SaveCSV failed: %v", err)
	}
	third, _ := os.ReadFile(path)
	if string(third) != "Name,URL\nJane Doe,https://x.test/tutor/1\n" {
		t.Errorf("expected file to be replaced, got %q", third)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestSaveCSV_UnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := SaveCSV(sample, FullSchema, file, "tutors.csv"); err == nil {
		t.Error("expected error when output dir is a file")
	}
}
