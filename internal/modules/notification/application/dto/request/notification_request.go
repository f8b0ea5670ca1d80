package request

type GetNotificationRequest struct {
	NotificationId string `uri:"id" json:"notification_id"`
	Language       string `form:"language" json:"language"`
}

// ListNotificationsRequest paginate 缺省为 false，保持旧调用方拿到的是纯列表
type ListNotificationsRequest struct {
	Language string `form:"language" json:"language"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
	Paginate bool   `form:"paginate" json:"paginate"`
}
