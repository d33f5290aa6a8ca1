package dto

// Status is the uniform response body for mutating endpoints.
type Status struct {
	OK  bool   `json:"ok"`
	Msg string `json:"msg"`
}

// Page is the envelope every paginated list endpoint returns.
type Page struct {
	Count    int64       `json:"count"`
	PageSize int         `json:"page_size"`
	Current  int         `json:"current"`
	Results  interface{} `json:"results"`
}

// NewPage wraps results in the standard envelope.
func NewPage(count int64, pageSize, current int, results interface{}) Page {
	return Page{
		Count:    count,
		PageSize: pageSize,
		Current:  current,
		Results:  results,
	}
}
