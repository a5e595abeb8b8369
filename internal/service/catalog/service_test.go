package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "LUGAR": "Cima Muela del Diablo",
        "descripcion": "Punto más alto",
        "imagenUrl": "images/cima.jpg"
      },
      "geometry": {"type": "Point", "coordinates": [-68.056389, -16.588056]}
    },
    {
      "type": "Feature",
      "properties": {"LUGAR": "La Grieta"},
      "geometry": {"type": "Point", "coordinates": [-68.05721, -16.58947]}
    }
  ]
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "puntos.geojson")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write catalog fixture: %v", err)
	}
	return path
}

func TestLoadedCatalog(t *testing.T) {
	svc := New(writeCatalog(t, sampleCatalog))

	if !svc.Available() {
		t.Fatal("catalog should be available")
	}
	if svc.Count() != 2 {
		t.Fatalf("expected 2 records, got %d", svc.Count())
	}
	if names := svc.Names(); names[0] != "Cima Muela del Diablo" || names[1] != "La Grieta" {
		t.Fatalf("names out of load order: %v", names)
	}
}

func TestMissingFileDegrades(t *testing.T) {
	svc := New(filepath.Join(t.TempDir(), "no-existe.geojson"))

	if svc.Available() {
		t.Fatal("catalog should be unavailable")
	}
	if svc.Count() != 0 {
		t.Fatalf("expected 0 records, got %d", svc.Count())
	}
	if _, err := svc.Document(); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if features := svc.Features(); features != nil {
		t.Fatalf("expected nil features, got %v", features)
	}
}

func TestMalformedFileDegrades(t *testing.T) {
	svc := New(writeCatalog(t, "{ not json"))

	if svc.Available() {
		t.Fatal("malformed catalog should leave the service unavailable")
	}
}

func TestFindFeatureSubstringCaseInsensitive(t *testing.T) {
	svc := New(writeCatalog(t, sampleCatalog))

	feature, ok := svc.FindFeature("grieta")
	if !ok {
		t.Fatal("expected a match for 'grieta'")
	}
	if feature.Name() != "La Grieta" {
		t.Fatalf("unexpected match %q", feature.Name())
	}

	if _, ok := svc.FindFeature("valle de la luna"); ok {
		t.Fatal("expected no match")
	}
}
