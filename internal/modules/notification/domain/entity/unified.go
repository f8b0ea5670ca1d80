package entity

const (
	// 找不到所请求语言的文本时使用的占位文本
	PlaceholderDescription = "(No Description)"
	PlaceholderText        = "(No Text)"
)

// UnifiedNotification 通知 + 损坏项 + 原因 + 可选工单（含工序与物料）的聚合视图
type UnifiedNotification struct {
	NotificationId     string `json:"notification_id"`
	NotificationType   string `json:"notification_type"`
	TypeText           string `json:"notification_type_text"`
	Priority           string `json:"priority"`
	PriorityText       string `json:"priority_text"`
	CreatedBy          string `json:"created_by"`
	CreatedAt          string `json:"created_at"`
	RequiredStart      string `json:"required_start"`
	RequiredEnd        string `json:"required_end"`
	EquipmentId        string `json:"equipment_id"`
	FunctionalLocation string `json:"functional_location"`
	Language           string `json:"language"`
	ShortText          string `json:"short_text"`
	LongText           string `json:"long_text"`

	Items  []DamageItemView `json:"items"`
	Damage DamageItemView   `json:"damage"`
	Cause  CauseView        `json:"cause"`

	WorkOrder *WorkOrderView `json:"work_order"`
}

// DamageItemView 损坏项；零值表示“无损坏项”
type DamageItemView struct {
	SortNo      int    `json:"sort_no"`
	PartGroup   string `json:"part_group"`
	PartCode    string `json:"part_code"`
	DamageGroup string `json:"damage_group"`
	DamageCode  string `json:"damage_code"`
	Description string `json:"description"`
}

// IsEmpty 通知没有损坏项时 Damage 为零值
func (d DamageItemView) IsEmpty() bool {
	return d == DamageItemView{}
}

// CauseView 原因；零值表示没有原因记录
type CauseView struct {
	CodeGroup   string `json:"code_group"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (c CauseView) IsEmpty() bool {
	return c == CauseView{}
}

type WorkOrderView struct {
	OrderId      string          `json:"order_id"`
	OrderType    string          `json:"order_type"`
	TypeText     string          `json:"order_type_text"`
	Description  string          `json:"description"`
	BasicStart   string          `json:"basic_start"`
	BasicEnd     string          `json:"basic_end"`
	Status       string          `json:"status"`
	Operations   []OperationView `json:"operations"`
	AllMaterials []MaterialView  `json:"all_materials"`
}

type OperationView struct {
	OperationNo  string         `json:"operation_no"`
	Description  string         `json:"description"`
	WorkCenter   string         `json:"work_center"`
	Duration     float64        `json:"duration"`
	DurationUnit string         `json:"duration_unit"`
	Materials    []MaterialView `json:"materials"`
}

type MaterialView struct {
	ReservationNo string  `json:"reservation_no"`
	ItemNo        int     `json:"item_no"`
	OperationNo   string  `json:"operation_no"`
	MaterialNo    string  `json:"material_no"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
}

// NotificationListItem 列表投影，只含抬头字段
type NotificationListItem struct {
	NotificationId     string `json:"notification_id"`
	NotificationType   string `json:"notification_type"`
	TypeText           string `json:"notification_type_text"`
	Priority           string `json:"priority"`
	PriorityText       string `json:"priority_text"`
	ShortText          string `json:"short_text"`
	CreatedBy          string `json:"created_by"`
	CreatedAt          string `json:"created_at"`
	EquipmentId        string `json:"equipment_id"`
	FunctionalLocation string `json:"functional_location"`
}
