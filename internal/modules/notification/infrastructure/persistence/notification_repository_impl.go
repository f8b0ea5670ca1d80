package persistence

import (
	"context"
	"fmt"
	"time"

	"MaintLens/internal/modules/notification/domain/entity"
	"MaintLens/internal/modules/notification/domain/i18n"
	"MaintLens/internal/modules/notification/domain/repository"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

type notificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

type headerRow struct {
	NotificationId     string
	NotificationType   string
	Priority           string
	CreatedBy          string
	CreatedAt          time.Time
	RequiredStart      *time.Time
	RequiredEnd        *time.Time
	EquipmentId        string
	FunctionalLocation string
	ShortText          string
	LongText           string
}

type operationRow struct {
	OperationNo  string
	Description  string
	WorkCenter   string
	Duration     float64
	DurationUnit string
}

// FetchUnified 读取顺序固定：抬头 → 损坏项 → 原因 → 工单 → 工序 → 物料，每张逻辑表一次查询
func (r *notificationRepositoryImpl) FetchUnified(ctx context.Context, notificationID string, language string) (*entity.UnifiedNotification, bool, error) {
	db := r.db.WithContext(ctx)

	// 1. 抬头 + 本地化文本
	var headers []headerRow
	err := db.Table("notification_header AS h").
		Select(`h.notification_id, h.notification_type, h.priority, h.created_by, h.created_at,
			h.required_start, h.required_end, h.equipment_id, h.functional_location,
			COALESCE(NULLIF(c.short_text, ''), ?) AS short_text,
			COALESCE(NULLIF(c.long_text, ''), ?) AS long_text`,
			entity.PlaceholderDescription, entity.PlaceholderText).
		Joins("LEFT JOIN notification_content AS c ON c.notification_id = h.notification_id AND c.language = ?", language).
		Where("h.notification_id = ?", notificationID).
		Limit(1).
		Scan(&headers).Error
	if err != nil {
		return nil, false, fmt.Errorf("query notification header: %w", err)
	}
	if len(headers) == 0 {
		return nil, false, nil
	}
	h := headers[0]

	out := &entity.UnifiedNotification{
		NotificationId:     h.NotificationId,
		NotificationType:   h.NotificationType,
		TypeText:           i18n.NotificationTypeText(h.NotificationType, language),
		Priority:           h.Priority,
		PriorityText:       i18n.PriorityText(h.Priority, language),
		CreatedBy:          h.CreatedBy,
		CreatedAt:          h.CreatedAt.Format(dateTimeLayout),
		RequiredStart:      formatDate(h.RequiredStart),
		RequiredEnd:        formatDate(h.RequiredEnd),
		EquipmentId:        h.EquipmentId,
		FunctionalLocation: h.FunctionalLocation,
		Language:           language,
		ShortText:          h.ShortText,
		LongText:           h.LongText,
	}

	// 2. 损坏项，首项作为主损坏
	items := make([]entity.DamageItemView, 0)
	err = db.Table("damage_item AS d").
		Select(`d.item_sort_no AS sort_no, d.part_group, d.part_code, d.damage_group, d.damage_code,
			COALESCE(NULLIF(t.description, ''), ?) AS description`, entity.PlaceholderDescription).
		Joins("LEFT JOIN damage_item_text AS t ON t.notification_id = d.notification_id AND t.item_sort_no = d.item_sort_no AND t.language = ?", language).
		Where("d.notification_id = ?", notificationID).
		Order("d.item_sort_no ASC").
		Scan(&items).Error
	if err != nil {
		return nil, false, fmt.Errorf("query damage items: %w", err)
	}
	if items == nil {
		items = make([]entity.DamageItemView, 0)
	}
	out.Items = items
	if len(items) > 0 {
		out.Damage = items[0]
	}

	// 3. 原因（至多一条）
	var causes []entity.CauseView
	err = db.Table("notification_cause AS u").
		Select(`u.code_group, u.code, COALESCE(NULLIF(t.description, ''), ?) AS description`, entity.PlaceholderDescription).
		Joins("LEFT JOIN cause_text AS t ON t.notification_id = u.notification_id AND t.language = ?", language).
		Where("u.notification_id = ?", notificationID).
		Limit(1).
		Scan(&causes).Error
	if err != nil {
		return nil, false, fmt.Errorf("query cause: %w", err)
	}
	if len(causes) > 0 {
		out.Cause = causes[0]
	}

	// 4. 关联工单
	var orders []entity.OrderHeader
	err = db.Where("notification_id = ?", notificationID).
		Order("order_id ASC").
		Limit(1).
		Find(&orders).Error
	if err != nil {
		return nil, false, fmt.Errorf("query order header: %w", err)
	}
	if len(orders) == 0 {
		return out, true, nil
	}

	// 5. 工序与物料
	wo, err := r.fetchWorkOrder(ctx, orders[0], language)
	if err != nil {
		return nil, false, err
	}
	out.WorkOrder = wo
	return out, true, nil
}

func (r *notificationRepositoryImpl) fetchWorkOrder(ctx context.Context, o entity.OrderHeader, language string) (*entity.WorkOrderView, error) {
	db := r.db.WithContext(ctx)

	var ops []operationRow
	err := db.Table("order_operation AS op").
		Select(`op.operation_no, COALESCE(NULLIF(t.description, ''), ?) AS description,
			op.work_center, op.duration, op.duration_unit`, entity.PlaceholderDescription).
		Joins("LEFT JOIN operation_text AS t ON t.order_id = op.order_id AND t.operation_no = op.operation_no AND t.language = ?", language).
		Where("op.order_id = ?", o.OrderId).
		Order("op.operation_no ASC").
		Scan(&ops).Error
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}

	// 整单物料一次取回，再在内存中按工序分组，避免按工序逐个查询
	materials := make([]entity.MaterialView, 0)
	err = db.Table("reservation AS r").
		Select(`r.reservation_no, r.item_no, r.operation_no, r.material_no,
			COALESCE(NULLIF(mt.description, ''), ?) AS description, r.quantity, r.unit`, entity.PlaceholderDescription).
		Joins("LEFT JOIN material_text AS mt ON mt.material_no = r.material_no AND mt.language = ?", language).
		Where("r.order_id = ?", o.OrderId).
		Order("r.operation_no ASC, r.reservation_no ASC, r.item_no ASC").
		Scan(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	if materials == nil {
		materials = make([]entity.MaterialView, 0)
	}

	operations, orphans := partitionMaterials(ops, materials)
	if orphans > 0 {
		zlog.Warn("materials reference unknown operations",
			zap.String("order_id", o.OrderId),
			zap.Int("count", orphans))
	}

	return &entity.WorkOrderView{
		OrderId:      o.OrderId,
		OrderType:    o.OrderType,
		TypeText:     i18n.OrderTypeText(o.OrderType, language),
		Description:  o.Description,
		BasicStart:   formatDate(o.BasicStart),
		BasicEnd:     formatDate(o.BasicEnd),
		Status:       o.Status,
		Operations:   operations,
		AllMaterials: materials,
	}, nil
}

// partitionMaterials 按工序号把物料分桶；返回找不到所属工序的物料数
func partitionMaterials(ops []operationRow, materials []entity.MaterialView) ([]entity.OperationView, int) {
	byOp := make(map[string][]entity.MaterialView, len(ops))
	for _, m := range materials {
		byOp[m.OperationNo] = append(byOp[m.OperationNo], m)
	}

	operations := make([]entity.OperationView, 0, len(ops))
	assigned := 0
	for _, op := range ops {
		bucket := byOp[op.OperationNo]
		if bucket == nil {
			bucket = make([]entity.MaterialView, 0)
		}
		assigned += len(bucket)
		delete(byOp, op.OperationNo)
		operations = append(operations, entity.OperationView{
			OperationNo:  op.OperationNo,
			Description:  op.Description,
			WorkCenter:   op.WorkCenter,
			Duration:     op.Duration,
			DurationUnit: op.DurationUnit,
			Materials:    bucket,
		})
	}
	return operations, len(materials) - assigned
}

func (r *notificationRepositoryImpl) List(ctx context.Context, q entity.ListQuery) (*entity.NotificationPage, error) {
	db := r.db.WithContext(ctx)

	query := db.Table("notification_header AS h").
		Select(`h.notification_id, h.notification_type, h.priority, h.created_by, h.created_at,
			h.equipment_id, h.functional_location,
			COALESCE(NULLIF(c.short_text, ''), ?) AS short_text`, entity.PlaceholderDescription).
		Joins("LEFT JOIN notification_content AS c ON c.notification_id = h.notification_id AND c.language = ?", q.Language).
		Order("h.created_at DESC, h.notification_id DESC")

	page := &entity.NotificationPage{}
	if q.Paginate {
		page.Page, page.PageSize = entity.NormalizePage(q.Page, q.PageSize)
		if err := db.Model(&entity.NotificationHeader{}).Count(&page.Total).Error; err != nil {
			return nil, fmt.Errorf("count notifications: %w", err)
		}
		page.TotalPages = entity.TotalPages(page.Total, page.PageSize)
		query = query.Offset((page.Page - 1) * page.PageSize).Limit(page.PageSize)
	}

	var rows []headerRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	page.Items = make([]entity.NotificationListItem, 0, len(rows))
	for _, h := range rows {
		page.Items = append(page.Items, entity.NotificationListItem{
			NotificationId:     h.NotificationId,
			NotificationType:   h.NotificationType,
			TypeText:           i18n.NotificationTypeText(h.NotificationType, q.Language),
			Priority:           h.Priority,
			PriorityText:       i18n.PriorityText(h.Priority, q.Language),
			ShortText:          h.ShortText,
			CreatedBy:          h.CreatedBy,
			CreatedAt:          h.CreatedAt.Format(dateTimeLayout),
			EquipmentId:        h.EquipmentId,
			FunctionalLocation: h.FunctionalLocation,
		})
	}
	if !q.Paginate {
		page.Total = int64(len(page.Items))
	}
	return page, nil
}

func (r *notificationRepositoryImpl) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
