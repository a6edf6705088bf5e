package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ResourceEntry is one API in the public-apis resources document.
type ResourceEntry struct {
	API         string `json:"API"`
	Description string `json:"Description"`
	Auth        string `json:"Auth"`
	HTTPS       bool   `json:"HTTPS"`
	Cors        string `json:"Cors"`
	Link        string `json:"Link"`
	Category    string `json:"Category"`
}

// ResourceDocument is the resources.json layout.
type ResourceDocument struct {
	Count   int             `json:"count"`
	Entries []ResourceEntry `json:"entries"`
}

// CategoryEntry is one category in the categories document.
type CategoryEntry struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryDocument is the categories.json layout.
type CategoryDocument struct {
	Count   int             `json:"count"`
	Entries []CategoryEntry `json:"entries"`
}

// DecodeResources parses a resources document.
func DecodeResources(r io.Reader) (*ResourceDocument, error) {
	var doc ResourceDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	if doc.Count != len(doc.Entries) {
		slog.Warn("resources count does not match entries", "count", doc.Count, "entries", len(doc.Entries))
	}
	return &doc, nil
}

// DecodeCategories parses a categories document.
func DecodeCategories(r io.Reader) (*CategoryDocument, error) {
	var doc CategoryDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if doc.Count != len(doc.Entries) {
		slog.Warn("categories count does not match entries", "count", doc.Count, "entries", len(doc.Entries))
	}
	return &doc, nil
}

// ReadResourcesFile opens and parses a resources document from disk.
func ReadResourcesFile(path string) (*ResourceDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resources: %w", err)
	}
	defer f.Close()
	return DecodeResources(f)
}

// ReadCategoriesFile opens and parses a categories document from disk.
func ReadCategoriesFile(path string) (*CategoryDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open categories: %w", err)
	}
	defer f.Close()
	return DecodeCategories(f)
}
