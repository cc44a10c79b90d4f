package domain

import "time"

// BaseModel is the common base struct for locally persisted models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageQuery is the wire form of a list request. Page is 1-based.
type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

// Pagination is the metadata block the backend attaches to list responses.
type Pagination struct {
	CurrentPage  int    `json:"currentPage"`
	TotalPages   int    `json:"totalPages"`
	TotalRecords int    `json:"totalRecords"`
	Showing      string `json:"showing,omitempty"`
}

// PageResult is one page of records plus the server-reported total.
type PageResult[T any] struct {
	Records      []T `json:"records"`
	TotalRecords int `json:"totalRecords"`
}

// Record is a loosely typed row used for backend lists whose columns vary
// by category (talent progress, learner rankings).
type Record map[string]any
