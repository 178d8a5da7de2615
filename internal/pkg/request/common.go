package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ByNameRequest is used by routes addressing a resource by its registered name.
type ByNameRequest struct {
	Name string `uri:"name" binding:"required"`
}

// PageRequest holds the shared paging query parameters.
type PageRequest struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// Offset returns the number of rows skipped before the current page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}
