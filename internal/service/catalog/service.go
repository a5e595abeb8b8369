package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/vgrajeda/muela-guide/backend/internal/model/place"
)

// ErrUnavailable reports that the catalog file was missing or malformed
// at startup. Dependents degrade to persona-only behavior instead of
// failing requests.
var ErrUnavailable = errors.New("catalog unavailable")

// Service holds the place catalog loaded once at startup. Immutable
// afterwards, so it needs no locking.
type Service struct {
	doc  *place.Document
	path string
}

// New loads the GeoJSON catalog. A load failure is logged and returns a
// working Service in the unavailable state rather than an error.
func New(path string) *Service {
	s := &Service{path: path}

	doc, err := load(path)
	if err != nil {
		log.Printf("[catalog] %v", err)
		log.Printf("[catalog] continuing without place data; chat degrades to persona-only context")
		return s
	}

	s.doc = doc
	log.Printf("[catalog] loaded %d records from %s", len(doc.Features), path)
	for i, f := range doc.Features {
		log.Printf("[catalog]   %d. %s", i+1, f.Name())
	}
	return s
}

func load(path string) (*place.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var doc place.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &doc, nil
}

// Available reports whether place data loaded at startup.
func (s *Service) Available() bool {
	return s.doc != nil
}

// Path returns the configured catalog location.
func (s *Service) Path() string {
	return s.path
}

// Document returns the raw GeoJSON document.
func (s *Service) Document() (*place.Document, error) {
	if s.doc == nil {
		return nil, ErrUnavailable
	}
	return s.doc, nil
}

// Features returns the catalog records in load order. Nil when
// unavailable.
func (s *Service) Features() []place.Feature {
	if s.doc == nil {
		return nil
	}
	return s.doc.Features
}

// Count returns the number of loaded records.
func (s *Service) Count() int {
	if s.doc == nil {
		return 0
	}
	return len(s.doc.Features)
}

// Names lists every record name in load order.
func (s *Service) Names() []string {
	features := s.Features()
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}

// FindFeature returns the first record whose name contains the query,
// case-insensitively.
func (s *Service) FindFeature(query string) (place.Feature, bool) {
	q := strings.ToLower(query)
	for _, f := range s.Features() {
		if strings.Contains(strings.ToLower(f.Name()), q) {
			return f, true
		}
	}
	return place.Feature{}, false
}
