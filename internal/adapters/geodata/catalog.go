// Package geodata serves the embedded administrative-region catalog.
// The dataset is a GeoJSON FeatureCollection; region properties are pulled
// out with JMESPath projections so the geometry payload never needs a
// dedicated type.
package geodata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/skilldrones/regionview/internal/ports"
)

//go:embed regions.json
var regionsRaw []byte

const (
	listExpr     = "features[].properties"
	districtExpr = "features[?properties.federal_district == '%s'].properties"
)

// Catalog implements ports.RegionSource over the embedded dataset.
type Catalog struct {
	doc any
}

var _ ports.RegionSource = (*Catalog)(nil)

// NewCatalog parses the embedded dataset. It fails only if the embedded
// file is not valid GeoJSON-shaped JSON, which is a build defect.
func NewCatalog() (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(regionsRaw, &doc); err != nil {
		return nil, fmt.Errorf("parse embedded region data: %w", err)
	}

	c := &Catalog{doc: doc}
	// Fail fast on a dataset whose features lack the expected properties.
	if _, err := c.List(); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every region in catalog order.
func (c *Catalog) List() ([]ports.Region, error) {
	return c.search(listExpr)
}

// ByDistrict returns the regions of one federal district.
func (c *Catalog) ByDistrict(district string) ([]ports.Region, error) {
	// Single quotes terminate a JMESPath raw string literal.
	escaped := strings.ReplaceAll(district, "'", `\'`)
	return c.search(fmt.Sprintf(districtExpr, escaped))
}

// Districts returns the distinct federal district names in catalog order.
func (c *Catalog) Districts() ([]string, error) {
	regions, err := c.List()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if _, dup := seen[r.FederalDistrict]; dup {
			continue
		}
		seen[r.FederalDistrict] = struct{}{}
		out = append(out, r.FederalDistrict)
	}
	return out, nil
}

func (c *Catalog) search(expr string) ([]ports.Region, error) {
	result, err := jmespath.Search(expr, c.doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate region query %q: %w", expr, err)
	}

	items, ok := result.([]any)
	if !ok {
		if result == nil {
			return []ports.Region{}, nil
		}
		return nil, fmt.Errorf("region query %q returned %T, want list", expr, result)
	}

	regions := make([]ports.Region, 0, len(items))
	for i, item := range items {
		props, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("feature %d has malformed properties", i)
		}
		region, err := decodeRegion(props)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		regions = append(regions, region)
	}
	return regions, nil
}

func decodeRegion(props map[string]any) (ports.Region, error) {
	name, ok := props["region"].(string)
	if !ok || name == "" {
		return ports.Region{}, fmt.Errorf("missing region name")
	}
	district, ok := props["federal_district"].(string)
	if !ok || district == "" {
		return ports.Region{}, fmt.Errorf("missing federal district")
	}
	population, ok := props["population"].(float64)
	if !ok {
		return ports.Region{}, fmt.Errorf("missing population")
	}
	return ports.Region{
		Name:            name,
		FederalDistrict: district,
		Population:      int64(population),
	}, nil
}
