package models

// Location is a node in the hierarchical location tree. A stock entry tagged
// with a child location also counts as present in every ancestor.
type Location struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ParentID *int   `json:"parent_id" db:"parent_id"`
}

type LocationRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int   `json:"parent_id"`
}

type UpdateLocationRequest struct {
	Name     *string `json:"name"`
	ParentID *int    `json:"parent_id"`
}
