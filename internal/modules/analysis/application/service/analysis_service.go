package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"MaintLens/internal/modules/analysis/application/dto/request"
	"MaintLens/internal/modules/analysis/application/dto/respond"
	"MaintLens/internal/modules/analysis/domain/analysis"
	analysisRepository "MaintLens/internal/modules/analysis/domain/repository"
	"MaintLens/internal/modules/analysis/infrastructure/mq"
	notifService "MaintLens/internal/modules/notification/application/service"
	"MaintLens/internal/modules/notification/domain/entity"
	notifRepository "MaintLens/internal/modules/notification/domain/repository"
	"MaintLens/pkg/util"
	"MaintLens/pkg/xerr"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

const (
	SourceLongText  = "long_text"
	SourceShortText = "short_text"
)

// Analyzer 文本质量分析编排器，由 pipeline.QualityPipeline 实现
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.Outcome, error)
}

type AnalysisService interface {
	AnalyzeText(ctx context.Context, req request.AnalyzeTextRequest) (*respond.AnalysisRespond, error)
	AnalyzeNotification(ctx context.Context, req request.AnalyzeNotificationRequest) (*respond.NotificationAnalysisRespond, error)
	ListLogs(ctx context.Context, req request.ListAnalysisLogsRequest) ([]*respond.AnalysisLogItem, error)
}

// Options 可选依赖为 nil 时对应功能关闭
type Options struct {
	Analyzer         Analyzer
	NotificationRepo notifRepository.NotificationRepository
	LogRepo          analysisRepository.AnalysisLogRepository // 可选：审计日志
	Publisher        mq.Publisher                             // 可选：分析完成事件
	AnalysisTopic    string
	MaxTextLength    int
	DefaultLanguage  string
}

type analysisServiceImpl struct {
	opts Options
}

func NewAnalysisService(opts Options) AnalysisService {
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = 4000
	}
	opts.DefaultLanguage = strings.ToLower(strings.TrimSpace(opts.DefaultLanguage))
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &analysisServiceImpl{opts: opts}
}

func (s *analysisServiceImpl) AnalyzeText(ctx context.Context, req request.AnalyzeTextRequest) (*respond.AnalysisRespond, error) {
	if err := s.validateText(req.Text); err != nil {
		return nil, err
	}

	out, err := s.opts.Analyzer.Analyze(ctx, req.Text)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.record(ctx, out, req.TenantId, req.Subject, "", "")
	return toRespond(out), nil
}

func (s *analysisServiceImpl) AnalyzeNotification(ctx context.Context, req request.AnalyzeNotificationRequest) (*respond.NotificationAnalysisRespond, error) {
	id := strings.TrimSpace(req.NotificationId)
	if !notifService.ValidNotificationID(id) {
		return nil, xerr.New(xerr.BadRequest, "invalid notification id")
	}
	language, err := notifService.ResolveLanguage(req.Language, s.opts.DefaultLanguage)
	if err != nil {
		return nil, err
	}

	notif, found, err := s.opts.NotificationRepo.FetchUnified(ctx, id, language)
	if err != nil {
		zlog.Error("fetch notification for analysis failed", zap.Error(err), zap.String("notification_id", id))
		return nil, xerr.ErrServerError
	}
	if !found {
		return nil, xerr.New(xerr.NotFound, "notification not found")
	}

	text, source := SubjectText(notif)
	if text == "" {
		return nil, xerr.New(xerr.BadRequest, "notification has no text to analyze")
	}
	if err := s.validateText(text); err != nil {
		return nil, err
	}

	out, err := s.opts.Analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, s.mapError(err)
	}

	s.record(ctx, out, req.TenantId, req.Subject, id, language)
	return &respond.NotificationAnalysisRespond{
		NotificationId: id,
		Language:       language,
		Source:         source,
		Result:         *toRespond(out),
	}, nil
}

func (s *analysisServiceImpl) ListLogs(ctx context.Context, req request.ListAnalysisLogsRequest) ([]*respond.AnalysisLogItem, error) {
	if s.opts.LogRepo == nil {
		return []*respond.AnalysisLogItem{}, nil
	}
	if id := strings.TrimSpace(req.NotificationId); id != "" && !notifService.ValidNotificationID(id) {
		return nil, xerr.New(xerr.BadRequest, "invalid notification id")
	}

	logs, err := s.opts.LogRepo.ListLatest(ctx, analysis.LogQuery{
		TenantId:       req.TenantId,
		NotificationId: strings.TrimSpace(req.NotificationId),
		Limit:          req.Limit,
	})
	if err != nil {
		zlog.Error("list analysis logs failed", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	items := make([]*respond.AnalysisLogItem, 0, len(logs))
	for _, l := range logs {
		issues := make([]string, 0)
		if l.IssuesJson != "" {
			if err := json.Unmarshal([]byte(l.IssuesJson), &issues); err != nil {
				zlog.Warn("analysis log issues corrupt", zap.String("id", l.Id), zap.Error(err))
				issues = make([]string, 0)
			}
		}
		items = append(items, &respond.AnalysisLogItem{
			Id:             l.Id,
			TenantId:       l.TenantId,
			Subject:        l.Subject,
			NotificationId: l.NotificationId,
			Language:       l.Language,
			TextHash:       l.TextHash,
			Score:          l.Score,
			Issues:         issues,
			Summary:        l.Summary,
			Fallback:       l.Fallback,
			Provider:       l.Provider,
			Model:          l.Model,
			LatencyMs:      l.LatencyMs,
			CreatedAt:      l.CreatedAt,
		})
	}
	return items, nil
}

// SubjectText 选取待分析文本：长文本优先，长文本为占位符时退回短文本
func SubjectText(n *entity.UnifiedNotification) (string, string) {
	if n == nil {
		return "", ""
	}
	if t := strings.TrimSpace(n.LongText); t != "" && t != entity.PlaceholderText {
		return n.LongText, SourceLongText
	}
	if t := strings.TrimSpace(n.ShortText); t != "" && t != entity.PlaceholderDescription {
		return n.ShortText, SourceShortText
	}
	return "", ""
}

func (s *analysisServiceImpl) validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return xerr.New(xerr.BadRequest, "text is required")
	}
	if len([]rune(text)) > s.opts.MaxTextLength {
		return xerr.New(xerr.BadRequest, "text too long")
	}
	return nil
}

func (s *analysisServiceImpl) mapError(err error) error {
	switch {
	case errors.Is(err, analysis.ErrMissingCredential):
		return xerr.ErrMisconfigured
	case errors.Is(err, analysis.ErrProvider):
		return xerr.ErrUpstream
	}
	var ce *xerr.CodeError
	if errors.As(err, &ce) {
		return ce
	}
	zlog.Error("analysis failed", zap.Error(err))
	return xerr.ErrServerError
}

// record 写审计日志并发布事件；两者失败都只记日志
func (s *analysisServiceImpl) record(ctx context.Context, out *analysis.Outcome, tenant, subject, notificationID, language string) {
	now := time.Now()

	if s.opts.LogRepo != nil {
		issues, _ := json.Marshal(out.Result.Issues)
		entry := &analysis.AnalysisLog{
			Id:             util.GenerateUUID(),
			TenantId:       tenant,
			Subject:        subject,
			NotificationId: notificationID,
			Language:       language,
			TextHash:       out.TextHash,
			Score:          out.Result.Score,
			IssuesJson:     string(issues),
			Summary:        out.Result.Summary,
			Fallback:       out.Fallback,
			Provider:       out.Provider,
			Model:          out.Model,
			LatencyMs:      out.LatencyMs,
			CreatedAt:      now,
		}
		if err := s.opts.LogRepo.Append(ctx, entry); err != nil {
			zlog.Error("append analysis log failed", zap.Error(err), zap.String("notification_id", notificationID))
		}
	}

	if s.opts.Publisher == nil || s.opts.AnalysisTopic == "" {
		return
	}
	event := analysis.Event{
		EventId:        util.GenerateUUID(),
		TenantId:       tenant,
		NotificationId: notificationID,
		Language:       language,
		TextHash:       out.TextHash,
		Result:         out.Result,
		Fallback:       out.Fallback,
		OccurredAt:     now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	key := notificationID
	if key == "" {
		key = out.TextHash
	}
	if _, err := s.opts.Publisher.Publish(ctx, mq.Message{
		Topic:   s.opts.AnalysisTopic,
		Key:     []byte(key),
		Value:   payload,
		Headers: map[string]string{"tenant": tenant, "event_id": event.EventId},
	}); err != nil {
		zlog.Warn("publish analysis event failed", zap.Error(err), zap.String("topic", s.opts.AnalysisTopic))
	}
}

func toRespond(out *analysis.Outcome) *respond.AnalysisRespond {
	issues := out.Result.Issues
	if issues == nil {
		issues = make([]string, 0)
	}
	return &respond.AnalysisRespond{
		Score:     out.Result.Score,
		Issues:    issues,
		Summary:   out.Result.Summary,
		Fallback:  out.Fallback,
		CacheHit:  out.CacheHit,
		Provider:  out.Provider,
		Model:     out.Model,
		LatencyMs: out.LatencyMs,
	}
}
