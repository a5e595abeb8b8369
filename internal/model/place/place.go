package place

// Document is the GeoJSON FeatureCollection the server ships with.
type Document struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one catalog record.
type Feature struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Geometry   *Geometry  `json:"geometry,omitempty"`
}

// Properties carries the survey fields. LUGAR is the only key used for
// matching; nothing enforces uniqueness.
type Properties struct {
	Lugar       string   `json:"LUGAR"`
	Norte       *float64 `json:"Norte,omitempty"`
	Sur         *float64 `json:"Sur,omitempty"`
	Descripcion string   `json:"descripcion,omitempty"`
	ImagenURL   string   `json:"imagenUrl,omitempty"`
}

// Geometry is a GeoJSON Point, coordinates ordered [lng, lat].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Name returns the display and match key.
func (f Feature) Name() string { return f.Properties.Lugar }

// ImageLocator returns the record's relative image path, empty when the
// record has no imagery.
func (f Feature) ImageLocator() string { return f.Properties.ImagenURL }

// Coordinates returns the point as (lng, lat) when present.
func (f Feature) Coordinates() (lng, lat float64, ok bool) {
	if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 {
		return 0, 0, false
	}
	return f.Geometry.Coordinates[0], f.Geometry.Coordinates[1], true
}

// Attachment is image metadata surfaced to the caller because the
// generated reply appears to reference a catalog place. Derived per
// response, never stored.
type Attachment struct {
	PlaceName   string    `json:"lugar"`
	URL         string    `json:"url"`
	Description string    `json:"descripcion,omitempty"`
	Coordinates []float64 `json:"coordenadas,omitempty"`
}

// AnalyzedImage identifies an image that was sent to the model as input
// context on the vision path.
type AnalyzedImage struct {
	PlaceName string `json:"lugar"`
	Locator   string `json:"url"`
}
