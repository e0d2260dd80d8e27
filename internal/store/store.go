// Package store loads feature collections and manifests from the
// data directory the conversion pipeline writes:
//
//	manifest.json
//	network_<year>.geojson
//	polygons_<year>.geojson
//	reference/manifest.json
//	reference/planimetrics_<year>.geojson
//
// A missing file is not an error: loaders return (nil, nil) and the
// engine degrades to empty results. Malformed JSON does propagate, as
// the one infrastructural failure the caller must surface.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/walkshed-data/netdiff/internal/geo"
)

// Manifest describes the detected dataset.
type Manifest struct {
	Name     string `json:"name"`
	Years    []int  `json:"years"`
	Location struct {
		Center [2]float64 `json:"center"`
		Zoom   float64    `json:"zoom"`
	} `json:"location"`
}

// ReferenceManifest describes the reference dataset.
type ReferenceManifest struct {
	AvailableYears []int `json:"available_years"`
}

// FileStore reads collections from a data directory.
type FileStore struct {
	root string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Manifest loads manifest.json, or (nil, nil) when absent.
func (s *FileStore) Manifest(ctx context.Context) (*Manifest, error) {
	var m Manifest
	ok, err := s.readJSON(ctx, "manifest.json", &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// ReferenceManifest loads reference/manifest.json, or (nil, nil) when
// absent.
func (s *FileStore) ReferenceManifest(ctx context.Context) (*ReferenceManifest, error) {
	var m ReferenceManifest
	ok, err := s.readJSON(ctx, filepath.Join("reference", "manifest.json"), &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// Collection loads a specific variant for a year, or (nil, nil) when
// the file does not exist.
func (s *FileStore) Collection(ctx context.Context, kind geo.Kind, year int) (*geo.FeatureCollection, error) {
	name := fmt.Sprintf("%s_%d.geojson", kind, year)
	if kind == geo.KindReference {
		name = filepath.Join("reference", fmt.Sprintf("planimetrics_%d.geojson", year))
	}
	return s.loadCollection(ctx, name, kind, year)
}

// CollectionForYear loads the preferred variant for a year: polygons
// when present (cross-year consistency), network as fallback.
func (s *FileStore) CollectionForYear(ctx context.Context, year int) (*geo.FeatureCollection, error) {
	coll, err := s.Collection(ctx, geo.KindPolygons, year)
	if err != nil || coll != nil {
		return coll, err
	}
	return s.Collection(ctx, geo.KindNetwork, year)
}

// ReferenceCollection loads the reference snapshot for a year.
func (s *FileStore) ReferenceCollection(ctx context.Context, year int) (*geo.FeatureCollection, error) {
	return s.Collection(ctx, geo.KindReference, year)
}

func (s *FileStore) loadCollection(ctx context.Context, name string, kind geo.Kind, year int) (*geo.FeatureCollection, error) {
	var coll geo.FeatureCollection
	ok, err := s.readJSON(ctx, name, &coll)
	if err != nil || !ok {
		return nil, err
	}
	coll.Kind = kind
	coll.Year = year
	for i := range coll.Features {
		if coll.Features[i].ID == "" {
			coll.Features[i].ID = uuid.NewString()
		}
		if coll.Features[i].Props.Year == nil {
			y := year
			coll.Features[i].Props.Year = &y
		}
	}
	return &coll, nil
}

// readJSON reads and decodes one file. Returns ok == false (and no
// error) when the file does not exist. The context is checked between
// the read and the decode so a cancelled request never pays for
// parsing a large payload.
func (s *FileStore) readJSON(ctx context.Context, name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}
