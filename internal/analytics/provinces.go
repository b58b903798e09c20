package analytics

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
)

// OtherProvince buckets farms that fall outside every known bounding box.
const OtherProvince = "Other"

// ProvinceClassifier maps a coordinate to a province bucket. The bounding-box
// implementation below is a deliberate approximation; a polygon-based lookup
// can replace it without touching the aggregator.
type ProvinceClassifier interface {
	Classify(lat, lng float64) string
}

//go:embed provinces.yaml
var provincesYAML []byte

type provinceBox struct {
	Name   string  `yaml:"name"`
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLng float64 `yaml:"max_lng"`
}

type provinceFile struct {
	Provinces []provinceBox `yaml:"provinces"`
}

// BoxClassifier classifies by lat/lng bounding boxes loaded from the embedded
// provinces.yaml. Boxes overlap near borders; the first match wins.
type BoxClassifier struct {
	boxes []provinceBox
}

func NewBoxClassifier() (*BoxClassifier, error) {
	var file provinceFile
	if err := yaml.Unmarshal(provincesYAML, &file); err != nil {
		return nil, fmt.Errorf("parse provinces config: %w", err)
	}
	if len(file.Provinces) == 0 {
		return nil, fmt.Errorf("provinces config is empty")
	}
	return &BoxClassifier{boxes: file.Provinces}, nil
}

func (c *BoxClassifier) Classify(lat, lng float64) string {
	for _, box := range c.boxes {
		if lat >= box.MinLat && lat <= box.MaxLat && lng >= box.MinLng && lng <= box.MaxLng {
			return box.Name
		}
	}
	return OtherProvince
}
