package types

// ConvertOptions holds the per-run extraction switches.
type ConvertOptions struct {
	// Images enables extraction of placed images as PNG crops.
	Images bool `json:"images" yaml:"images"`

	// Tables enables extraction of detected tables as CSV files.
	Tables bool `json:"tables" yaml:"tables"`

	// DPI is the rasterization resolution for image crops (default 300).
	DPI int `json:"dpi" yaml:"dpi"`

	// OCR enables text recognition for pages with no extractable text.
	// Takes effect only in builds with OCR support compiled in.
	OCR bool `json:"ocr" yaml:"ocr"`

	// Manifest enables writing a YAML manifest sidecar per document.
	Manifest bool `json:"manifest" yaml:"manifest"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	ConvertOptions `yaml:",inline"`

	// OutputDir is the output directory root (default "converted_files").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// CatalogConfig holds settings for the artifact catalog.
type CatalogConfig struct {
	// Path is the catalog SQLite database file (default "pdfsift.db").
	Path string `json:"path" yaml:"path"`
}
