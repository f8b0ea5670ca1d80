package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/internal/modules/analysis/infrastructure/cache"
	"MaintLens/internal/modules/analysis/infrastructure/llm"
	"MaintLens/internal/modules/analysis/infrastructure/plugins"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if len(input) > 0 {
		f.prompt = input[len(input)-1].Content
	}
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{
		Role:         schema.Assistant,
		Content:      f.reply,
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{TotalTokens: 42}},
	}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func factoryFor(m model.BaseChatModel, builds *int) llm.ChatModelFactory {
	return func(ctx context.Context, cred llm.Credentials) (model.BaseChatModel, llm.ChatModelMeta, error) {
		*builds++
		return m, llm.ChatModelMeta{Provider: cred.Provider, Model: cred.Model}, nil
	}
}

type memoryStore struct {
	data map[string]string
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("nil")
	}
	return v, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) (int64, error) {
	for _, k := range keys {
		delete(m.data, k)
	}
	return int64(len(keys)), nil
}

var testCred = llm.Credentials{Provider: "openai", APIKey: "sk-test", Model: "gpt-test"}

const wellFormed = "Score: 85\nProbleme:\n- Missing root cause\n- No batch number\nZusammenfassung: Adequate but incomplete."

func TestAnalyzeWellFormedReply(t *testing.T) {
	m := &fakeChatModel{reply: wellFormed}
	builds := 0
	p := NewQualityPipeline(nil, nil, testCred, factoryFor(m, &builds))

	out, err := p.Analyze(context.Background(), "Pumpe undicht")
	require.NoError(t, err)
	assert.Equal(t, analysis.Result{
		Score:   85,
		Issues:  []string{"Missing root cause", "No batch number"},
		Summary: "Adequate but incomplete.",
	}, out.Result)
	assert.False(t, out.Fallback)
	assert.False(t, out.CacheHit)
	assert.Equal(t, "openai", out.Provider)
	assert.Equal(t, "gpt-test", out.Model)
	assert.Len(t, out.TextHash, 64)
	assert.Contains(t, m.prompt, "Pumpe undicht")
	assert.Equal(t, 1, m.calls)
}

func TestAnalyzeUnparseableReplyFallsBack(t *testing.T) {
	m := &fakeChatModel{reply: "I cannot analyze this."}
	builds := 0
	p := NewQualityPipeline(nil, nil, testCred, factoryFor(m, &builds))

	out, err := p.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.True(t, out.Fallback)
	assert.Equal(t, analysis.FallbackResult(), out.Result)
}

func TestAnalyzeMissingCredentialFailsBeforeAnyCall(t *testing.T) {
	m := &fakeChatModel{reply: wellFormed}
	builds := 0
	p := NewQualityPipeline(nil, nil, llm.Credentials{Provider: "openai", Model: "gpt-test"}, factoryFor(m, &builds))

	_, err := p.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, analysis.ErrMissingCredential)
	assert.Zero(t, builds)
	assert.Zero(t, m.calls)
}

func TestAnalyzeTransportErrorPropagates(t *testing.T) {
	transport := errors.New("dial tcp: i/o timeout")
	m := &fakeChatModel{err: transport}
	builds := 0
	p := NewQualityPipeline(nil, nil, testCred, factoryFor(m, &builds))

	_, err := p.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrProvider)
	assert.ErrorIs(t, err, transport)
	assert.NotErrorIs(t, err, analysis.ErrMissingCredential)
}

func TestAnalyzeFactoryFailure(t *testing.T) {
	p := NewQualityPipeline(nil, nil, testCred, func(ctx context.Context, cred llm.Credentials) (model.BaseChatModel, llm.ChatModelMeta, error) {
		return nil, llm.ChatModelMeta{}, errors.New("bad base url")
	})
	_, err := p.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, analysis.ErrProvider)

	p = NewQualityPipeline(nil, nil, testCred, func(ctx context.Context, cred llm.Credentials) (model.BaseChatModel, llm.ChatModelMeta, error) {
		return nil, llm.ChatModelMeta{}, analysis.ErrMissingCredential
	})
	_, err = p.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, analysis.ErrMissingCredential)
	assert.NotErrorIs(t, err, analysis.ErrProvider)
}

func TestAnalyzeValidatesText(t *testing.T) {
	m := &fakeChatModel{reply: wellFormed}
	builds := 0
	p := NewQualityPipeline(plugins.NewQualityPlugin(&plugins.QualityConfig{MaxTextLength: 10}), nil, testCred, factoryFor(m, &builds))

	_, err := p.Analyze(context.Background(), "  ")
	assert.Error(t, err)
	_, err = p.Analyze(context.Background(), strings.Repeat("x", 11))
	assert.Error(t, err)
	assert.Zero(t, m.calls)
}

func TestAnalyzeUsesCacheForParsedResultsOnly(t *testing.T) {
	store := &memoryStore{data: map[string]string{}}
	resultCache := cache.NewResultCache(store, time.Minute)
	m := &fakeChatModel{reply: wellFormed}
	builds := 0
	p := NewQualityPipeline(nil, resultCache, testCred, factoryFor(m, &builds))
	ctx := context.Background()

	first, err := p.Analyze(ctx, "same text")
	require.NoError(t, err)
	second, err := p.Analyze(ctx, "same text")
	require.NoError(t, err)
	assert.Equal(t, 1, m.calls)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Result, second.Result)

	m.reply = "garbage"
	_, err = p.Analyze(ctx, "other text")
	require.NoError(t, err)
	_, err = p.Analyze(ctx, "other text")
	require.NoError(t, err)
	assert.Equal(t, 3, m.calls)
	assert.Len(t, store.data, 1)
}
