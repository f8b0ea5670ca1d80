package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/internal/modules/analysis/infrastructure/cache"
	"MaintLens/internal/modules/analysis/infrastructure/llm"
	"MaintLens/internal/modules/analysis/infrastructure/plugins"
	"MaintLens/pkg/util"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

// QualityPipeline 质量分析编排：凭据检查 → 缓存 → Prompt → 模型调用 → 解析 → 写缓存。
//
// 错误约定：
//   - 凭据缺失返回 analysis.ErrMissingCredential，且不会发起任何网络调用
//   - 模型调用失败返回包装了 analysis.ErrProvider 的错误
//   - 回复格式不符不是错误，返回兜底结果且 Outcome.Fallback 为 true
type QualityPipeline struct {
	plugin  *plugins.QualityPlugin
	cache   *cache.ResultCache
	cred    llm.Credentials
	factory llm.ChatModelFactory
}

// NewQualityPipeline cache 可以为 nil（禁用缓存）；factory 为 nil 时使用 llm.NewChatModel
func NewQualityPipeline(plugin *plugins.QualityPlugin, resultCache *cache.ResultCache, cred llm.Credentials, factory llm.ChatModelFactory) *QualityPipeline {
	if plugin == nil {
		plugin = plugins.NewQualityPlugin(nil)
	}
	if factory == nil {
		factory = llm.NewChatModel
	}
	return &QualityPipeline{
		plugin:  plugin,
		cache:   resultCache,
		cred:    cred,
		factory: factory,
	}
}

func (p *QualityPipeline) Plugin() *plugins.QualityPlugin {
	return p.plugin
}

// Analyze 对一段文本做一次同步分析，不做重试
func (p *QualityPipeline) Analyze(ctx context.Context, text string) (*analysis.Outcome, error) {
	startTime := time.Now()

	if !p.cred.Configured() {
		zlog.Error("analysis rejected: model credential missing", zap.String("provider", p.cred.Provider))
		return nil, analysis.ErrMissingCredential
	}

	if err := p.plugin.Validate(ctx, text); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	textHash := util.SHA256Hex(text)
	cacheKey := p.plugin.GetCacheKey(ctx, text)
	if cached, hit := p.cache.Get(ctx, cacheKey); hit {
		zlog.Info("analysis cache hit", zap.String("cache_key", cacheKey))
		return &analysis.Outcome{
			Result:    cached,
			CacheHit:  true,
			Provider:  p.cred.Provider,
			Model:     p.cred.Model,
			LatencyMs: time.Since(startTime).Milliseconds(),
			TextHash:  textHash,
		}, nil
	}

	msgs, err := p.plugin.BuildMessages(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	chatModel, meta, err := p.factory(ctx, p.cred)
	if err != nil {
		if errors.Is(err, analysis.ErrMissingCredential) {
			return nil, err
		}
		zlog.Error("create chat model failed", zap.Error(err), zap.String("provider", p.cred.Provider))
		return nil, fmt.Errorf("%w: %w", analysis.ErrProvider, err)
	}

	llmStart := time.Now()
	resp, err := chatModel.Generate(ctx, msgs)
	llmMs := time.Since(llmStart).Milliseconds()
	if err != nil {
		zlog.Error("llm generate failed",
			zap.Error(err),
			zap.String("provider", meta.Provider),
			zap.String("model", meta.Model),
			zap.Int64("llm_latency_ms", llmMs))
		return nil, fmt.Errorf("%w: %w", analysis.ErrProvider, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", analysis.ErrProvider)
	}

	result, parsed := p.plugin.ParseResponse(ctx, resp.Content)
	if parsed {
		p.cache.Set(ctx, cacheKey, result)
	} else {
		zlog.Warn("model reply did not match expected format",
			zap.String("provider", meta.Provider),
			zap.String("model", meta.Model),
			zap.Int("reply_length", len(resp.Content)))
	}

	tokens := 0
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		tokens = resp.ResponseMeta.Usage.TotalTokens
	}

	totalMs := time.Since(startTime).Milliseconds()
	zlog.Info("analysis done",
		zap.String("provider", meta.Provider),
		zap.String("model", meta.Model),
		zap.Int64("total_latency_ms", totalMs),
		zap.Int64("llm_latency_ms", llmMs),
		zap.Int("tokens_used", tokens),
		zap.Bool("fallback", !parsed),
		zap.Int("score", result.Score))

	return &analysis.Outcome{
		Result:    result,
		Fallback:  !parsed,
		Provider:  meta.Provider,
		Model:     meta.Model,
		LatencyMs: totalMs,
		TextHash:  textHash,
	}, nil
}
