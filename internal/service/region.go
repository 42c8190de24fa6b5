package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skilldrones/regionview/internal/ports"
)

// RegionServiceOptions groups dependencies for RegionService.
type RegionServiceOptions struct {
	Source ports.RegionSource
}

// RegionService fronts the static region catalog for the views.
type RegionService struct {
	source ports.RegionSource
}

// NewRegionService constructs a new RegionService.
func NewRegionService(opts RegionServiceOptions) (*RegionService, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("region source is required")
	}
	return &RegionService{source: opts.Source}, nil
}

// List returns every region in catalog order.
func (s *RegionService) List() ([]ports.Region, error) {
	regions, err := s.source.List()
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

// ByDistrict returns the regions of one federal district. District
// matching is case-insensitive on the full name.
func (s *RegionService) ByDistrict(district string) ([]ports.Region, error) {
	districts, err := s.source.Districts()
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}

	for _, d := range districts {
		if strings.EqualFold(d, district) {
			regions, byErr := s.source.ByDistrict(d)
			if byErr != nil {
				return nil, fmt.Errorf("regions of district %q: %w", d, byErr)
			}
			return regions, nil
		}
	}
	return nil, fmt.Errorf("unknown federal district %q", district)
}

// Districts returns the federal district names in catalog order.
func (s *RegionService) Districts() ([]string, error) {
	districts, err := s.source.Districts()
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	return districts, nil
}

// DistrictPopulation is one federal district with its summed population.
type DistrictPopulation struct {
	District   string
	Population int64
	Regions    int
}

// PopulationByDistrict aggregates region populations per federal district,
// largest first.
func (s *RegionService) PopulationByDistrict() ([]DistrictPopulation, error) {
	regions, err := s.source.List()
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}

	index := make(map[string]int)
	out := make([]DistrictPopulation, 0)
	for _, r := range regions {
		i, ok := index[r.FederalDistrict]
		if !ok {
			i = len(out)
			index[r.FederalDistrict] = i
			out = append(out, DistrictPopulation{District: r.FederalDistrict})
		}
		out[i].Population += r.Population
		out[i].Regions++
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Population > out[j].Population
	})
	return out, nil
}
