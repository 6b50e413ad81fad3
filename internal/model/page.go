package model

// PageRequest selects one page of a collection. Zero values mean
// "server default"; they are omitted from the request.
type PageRequest struct {
	Page     int
	PageSize int
}

// Page is one page of results. Total and TotalPages are
// server-authoritative; Page and PageSize echo the request.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
