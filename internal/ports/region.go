package ports

// Region is one administrative region with the properties the catalog
// carries for every feature.
type Region struct {
	Name            string `json:"region"`
	FederalDistrict string `json:"federal_district"`
	Population      int64  `json:"population"`
}

// RegionSource serves the static administrative-region catalog.
type RegionSource interface {
	// List returns every region in catalog order.
	List() ([]Region, error)

	// ByDistrict returns the regions of one federal district.
	ByDistrict(district string) ([]Region, error)

	// Districts returns the distinct federal district names in catalog order.
	Districts() ([]string, error)
}
