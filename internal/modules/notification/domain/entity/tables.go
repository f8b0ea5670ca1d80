package entity

import "time"

// 维护系统（记录系统）表映射。本服务只读，表结构由外部迁移维护。

// NotificationHeader 通知抬头
type NotificationHeader struct {
	NotificationId     string     `gorm:"column:notification_id;type:varchar(20);primaryKey"`
	NotificationType   string     `gorm:"column:notification_type;type:varchar(4);not null"`
	Priority           string     `gorm:"column:priority;type:varchar(2)"`
	CreatedBy          string     `gorm:"column:created_by;type:varchar(40)"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:datetime;index;not null"`
	RequiredStart      *time.Time `gorm:"column:required_start;type:datetime"`
	RequiredEnd        *time.Time `gorm:"column:required_end;type:datetime"`
	EquipmentId        string     `gorm:"column:equipment_id;type:varchar(18)"`
	FunctionalLocation string     `gorm:"column:functional_location;type:varchar(40)"`
}

func (NotificationHeader) TableName() string {
	return "notification_header"
}

// NotificationContent 通知多语言文本
type NotificationContent struct {
	NotificationId string `gorm:"column:notification_id;type:varchar(20);primaryKey"`
	Language       string `gorm:"column:language;type:varchar(2);primaryKey"`
	ShortText      string `gorm:"column:short_text;type:varchar(40)"`
	LongText       string `gorm:"column:long_text;type:text"`
}

func (NotificationContent) TableName() string {
	return "notification_content"
}

// DamageItem 损坏项
type DamageItem struct {
	NotificationId string `gorm:"column:notification_id;type:varchar(20);primaryKey"`
	ItemSortNo     int    `gorm:"column:item_sort_no;primaryKey"`
	PartGroup      string `gorm:"column:part_group;type:varchar(8)"`
	PartCode       string `gorm:"column:part_code;type:varchar(4)"`
	DamageGroup    string `gorm:"column:damage_group;type:varchar(8)"`
	DamageCode     string `gorm:"column:damage_code;type:varchar(4)"`
}

func (DamageItem) TableName() string {
	return "damage_item"
}

type DamageItemText struct {
	NotificationId string `gorm:"column:notification_id;type:varchar(20);primaryKey"`
	ItemSortNo     int    `gorm:"column:item_sort_no;primaryKey"`
	Language       string `gorm:"column:language;type:varchar(2);primaryKey"`
	Description    string `gorm:"column:description;type:varchar(40)"`
}

func (DamageItemText) TableName() string {
	return "damage_item_text"
}

// NotificationCause 原因（每个通知最多一条）
type NotificationCause struct {
	NotificationId string `gorm:"column:notification_id;type:varchar(20);primaryKey"`
	CodeGroup      string `gorm:"column:code_group;type:varchar(8)"`
	Code           string `gorm:"column:code;type:varchar(4)"`
}

func (NotificationCause) TableName() string {
	return "notification_cause"
}

type CauseText struct {
	NotificationId string `gorm:"column:notification_id;type:varchar(20);primaryKey"`
	Language       string `gorm:"column:language;type:varchar(2);primaryKey"`
	Description    string `gorm:"column:description;type:varchar(40)"`
}

func (CauseText) TableName() string {
	return "cause_text"
}

// OrderHeader 工单抬头，通过 notification_id 关联通知
type OrderHeader struct {
	OrderId        string     `gorm:"column:order_id;type:varchar(12);primaryKey"`
	NotificationId string     `gorm:"column:notification_id;type:varchar(20);index"`
	OrderType      string     `gorm:"column:order_type;type:varchar(4)"`
	Description    string     `gorm:"column:description;type:varchar(40)"`
	BasicStart     *time.Time `gorm:"column:basic_start;type:datetime"`
	BasicEnd       *time.Time `gorm:"column:basic_end;type:datetime"`
	Status         string     `gorm:"column:status;type:varchar(40)"`
}

func (OrderHeader) TableName() string {
	return "order_header"
}

// OrderOperation 工序
type OrderOperation struct {
	OrderId      string  `gorm:"column:order_id;type:varchar(12);primaryKey"`
	OperationNo  string  `gorm:"column:operation_no;type:varchar(4);primaryKey"`
	WorkCenter   string  `gorm:"column:work_center;type:varchar(8)"`
	Duration     float64 `gorm:"column:duration"`
	DurationUnit string  `gorm:"column:duration_unit;type:varchar(3)"`
}

func (OrderOperation) TableName() string {
	return "order_operation"
}

type OperationText struct {
	OrderId     string `gorm:"column:order_id;type:varchar(12);primaryKey"`
	OperationNo string `gorm:"column:operation_no;type:varchar(4);primaryKey"`
	Language    string `gorm:"column:language;type:varchar(2);primaryKey"`
	Description string `gorm:"column:description;type:varchar(40)"`
}

func (OperationText) TableName() string {
	return "operation_text"
}

// Reservation 物料预留行，挂在工单的某个工序下
type Reservation struct {
	ReservationNo string  `gorm:"column:reservation_no;type:varchar(10);primaryKey"`
	ItemNo        int     `gorm:"column:item_no;primaryKey"`
	OrderId       string  `gorm:"column:order_id;type:varchar(12);index"`
	OperationNo   string  `gorm:"column:operation_no;type:varchar(4)"`
	MaterialNo    string  `gorm:"column:material_no;type:varchar(18)"`
	Quantity      float64 `gorm:"column:quantity"`
	Unit          string  `gorm:"column:unit;type:varchar(3)"`
}

func (Reservation) TableName() string {
	return "reservation"
}

type MaterialText struct {
	MaterialNo  string `gorm:"column:material_no;type:varchar(18);primaryKey"`
	Language    string `gorm:"column:language;type:varchar(2);primaryKey"`
	Description string `gorm:"column:description;type:varchar(40)"`
}

func (MaterialText) TableName() string {
	return "material_text"
}

// AllTables 供测试环境建表使用
func AllTables() []interface{} {
	return []interface{}{
		&NotificationHeader{},
		&NotificationContent{},
		&DamageItem{},
		&DamageItemText{},
		&NotificationCause{},
		&CauseText{},
		&OrderHeader{},
		&OrderOperation{},
		&OperationText{},
		&Reservation{},
		&MaterialText{},
	}
}
