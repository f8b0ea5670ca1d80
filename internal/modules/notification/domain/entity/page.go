package entity

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery 列表查询参数；Paginate=false 时返回全量列表（兼容旧调用方）
type ListQuery struct {
	Language string
	Page     int
	PageSize int
	Paginate bool
}

// NotificationPage 分页结果
type NotificationPage struct {
	Items      []NotificationListItem `json:"items"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}

// NormalizePage 把 page 限制为 >=1，page_size 限制在 [1, MaxPageSize]
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// TotalPages 向上取整
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
