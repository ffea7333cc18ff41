package models

// MasterItem is the catalog-level description of a product type. Physical
// units are never stored against it directly; they are derived from the
// stock entries linked to it.
type MasterItem struct {
	ID                int    `json:"id" db:"id"`
	BaseID            string `json:"base_id" db:"base_id"`
	Title             string `json:"title" db:"title"`
	Brand             string `json:"brand" db:"brand"`
	ShortDescription  string `json:"short_description" db:"short_description"`
	UsableLifeYears   int    `json:"usable_life_years" db:"usable_life_years"`
	TotalUnitsCreated int    `json:"total_units_created" db:"total_units_created"`
	ImageURL          string `json:"image_url" db:"image_url"`
}

type MasterItemRequest struct {
	BaseID           string `json:"base_id" binding:"required,min=2,max=16"`
	Title            string `json:"title" binding:"required"`
	Brand            string `json:"brand"`
	ShortDescription string `json:"short_description"`
	UsableLifeYears  int    `json:"usable_life_years" binding:"omitempty,gte=0"`
	ImageURL         string `json:"image_url"`
}

// MasterItemUpdateRequest cannot touch BaseID or TotalUnitsCreated: printed
// labels and allocated ranges depend on both staying fixed.
type MasterItemUpdateRequest struct {
	Title            *string `json:"title"`
	Brand            *string `json:"brand"`
	ShortDescription *string `json:"short_description"`
	UsableLifeYears  *int    `json:"usable_life_years" binding:"omitempty,gte=0"`
	ImageURL         *string `json:"image_url"`
}
