package service

import (
	"context"
	"regexp"
	"strings"

	"MaintLens/internal/modules/notification/application/dto/request"
	"MaintLens/internal/modules/notification/domain/entity"
	"MaintLens/internal/modules/notification/domain/i18n"
	"MaintLens/internal/modules/notification/domain/repository"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

var notificationIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{10,20}$`)

type NotificationService interface {
	GetNotification(ctx context.Context, req request.GetNotificationRequest) (*entity.UnifiedNotification, error)
	// ListNotifications 分页时返回 *entity.NotificationPage，否则返回 []entity.NotificationListItem
	ListNotifications(ctx context.Context, req request.ListNotificationsRequest) (interface{}, error)
	Healthy(ctx context.Context) bool
}

type notificationServiceImpl struct {
	repo            repository.NotificationRepository
	defaultLanguage string
}

func NewNotificationService(repo repository.NotificationRepository, defaultLanguage string) NotificationService {
	if !i18n.Supported(defaultLanguage) {
		defaultLanguage = i18n.DefaultLanguage
	}
	return &notificationServiceImpl{repo: repo, defaultLanguage: strings.ToLower(defaultLanguage)}
}

// ResolveLanguage 空值取默认语言，不支持的语言返回参数错误
func ResolveLanguage(language string, defaultLanguage string) (string, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return defaultLanguage, nil
	}
	if !i18n.Supported(language) {
		return "", xerr.New(xerr.BadRequest, "unsupported language: "+language)
	}
	return language, nil
}

// ValidNotificationID 通知号为 10-20 位字母数字
func ValidNotificationID(id string) bool {
	return notificationIDPattern.MatchString(id)
}

func (s *notificationServiceImpl) GetNotification(ctx context.Context, req request.GetNotificationRequest) (*entity.UnifiedNotification, error) {
	id := strings.TrimSpace(req.NotificationId)
	if !ValidNotificationID(id) {
		return nil, xerr.New(xerr.BadRequest, "invalid notification id")
	}
	language, err := ResolveLanguage(req.Language, s.defaultLanguage)
	if err != nil {
		return nil, err
	}

	notif, found, err := s.repo.FetchUnified(ctx, id, language)
	if err != nil {
		zlog.Error("fetch notification failed", zap.Error(err), zap.String("notification_id", id))
		return nil, xerr.ErrServerError
	}
	if !found {
		return nil, xerr.New(xerr.NotFound, "notification not found")
	}
	return notif, nil
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context, req request.ListNotificationsRequest) (interface{}, error) {
	language, err := ResolveLanguage(req.Language, s.defaultLanguage)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.List(ctx, entity.ListQuery{
		Language: language,
		Page:     req.Page,
		PageSize: req.PageSize,
		Paginate: req.Paginate,
	})
	if err != nil {
		zlog.Error("list notifications failed", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if !req.Paginate {
		return page.Items, nil
	}
	return page, nil
}

func (s *notificationServiceImpl) Healthy(ctx context.Context) bool {
	if err := s.repo.Ping(ctx); err != nil {
		zlog.Warn("database ping failed", zap.Error(err))
		return false
	}
	return true
}
