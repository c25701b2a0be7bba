package models

// CenterMapFilter represents query parameters for center-level maps
type CenterMapFilter struct {
	Layer string `form:"layer"` // total, heads, fattening
}

// SubcenterMapFilter represents query parameters for the sub-center map
type SubcenterMapFilter struct {
	Mode   string `form:"mode"`   // total, types
	Center string `form:"center"` // Optional center name restriction
	Scale  string `form:"scale"`  // fixed, quantile
}

// DensityFilter represents query parameters for the dot-density layer
type DensityFilter struct {
	Category string `form:"category"` // all or a category key
	Center   string `form:"center"`
}

// ChartFilter represents query parameters for chart series
type ChartFilter struct {
	Order string `form:"order"` // asc, desc
	Limit int    `form:"limit"`
}
