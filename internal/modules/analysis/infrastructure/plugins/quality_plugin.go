package plugins

import (
	"context"
	"fmt"
	"strings"

	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/pkg/util"

	"github.com/cloudwego/eino/schema"
)

// CacheKeyPrefix 分析结果缓存 Key 前缀
const CacheKeyPrefix = "maintlens:analysis:"

// DefaultCriteria 默认评判维度（GMP / ALCOA+ 数据完整性）
var DefaultCriteria = []string{
	"Zuordenbarkeit: Wer hat was beobachtet oder getan?",
	"Lesbarkeit und Verständlichkeit des Textes",
	"Zeitnähe: Sind Zeitpunkte oder Zeiträume nachvollziehbar?",
	"Vollständigkeit: Schadensbild, Ursache und durchgeführte Maßnahmen",
	"Genauigkeit: konkrete Messwerte, Chargen- oder Materialnummern statt vager Angaben",
	"Konsistenz: keine Widersprüche innerhalb des Textes",
}

// QualityPlugin 维护通知文本质量评估插件
//
// Prompt 与 ParseResponse 是同一份输出格式约定的上下游，修改时必须同步
type QualityPlugin struct {
	config *QualityConfig
}

// QualityConfig 质量评估配置
type QualityConfig struct {
	Criteria      []string // 评判维度，空则使用 DefaultCriteria
	CacheTTL      int      // 缓存 TTL（秒）
	MaxTextLength int      // 文本最大长度（按字符计）
}

func NewQualityPlugin(config *QualityConfig) *QualityPlugin {
	if config == nil {
		config = &QualityConfig{}
	}
	if len(config.Criteria) == 0 {
		config.Criteria = DefaultCriteria
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 3600
	}
	if config.MaxTextLength <= 0 {
		config.MaxTextLength = 4000
	}
	return &QualityPlugin{config: config}
}

func (p *QualityPlugin) GetServiceType() string {
	return "quality"
}

// BuildPrompt 渲染完整的指令文本：角色、待评估原文、严格的输出格式
func (p *QualityPlugin) BuildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Du bist ein erfahrener Qualitätsprüfer für Instandhaltungsmeldungen in einem GMP-regulierten Pharmabetrieb.\n")
	b.WriteString("Bewerte die Qualität des folgenden Meldungstextes nach den ALCOA+-Grundsätzen.\n\n")

	b.WriteString("Bewertungskriterien:\n")
	for _, c := range p.config.Criteria {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}

	b.WriteString("\nZu bewertender Text:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"\n\n")

	b.WriteString("Antworte ausschließlich in exakt diesem Format:\n")
	b.WriteString("Score: <ganze Zahl von 0 bis 100>\n")
	b.WriteString("Probleme:\n")
	b.WriteString("- <erstes Problem>\n")
	b.WriteString("- <weiteres Problem>\n")
	b.WriteString("Zusammenfassung: <ein bis zwei Sätze>\n\n")
	b.WriteString("Jedes Problem steht in einer eigenen Zeile und beginnt mit \"- \". ")
	b.WriteString("Gibt es keine Probleme, bleibt die Liste leer. ")
	b.WriteString("Schreibe keinen weiteren Text, keine Einleitung, kein Markdown und keine Codeblöcke.")
	return b.String()
}

// BuildMessages 把 Prompt 包装为 Eino 消息
func (p *QualityPlugin) BuildMessages(ctx context.Context, text string) ([]*schema.Message, error) {
	if err := p.Validate(ctx, text); err != nil {
		return nil, err
	}
	return []*schema.Message{schema.UserMessage(p.BuildPrompt(text))}, nil
}

// ParseResponse 解析模型回复；第二个返回值为 false 表示使用了兜底结果
func (p *QualityPlugin) ParseResponse(ctx context.Context, llmOutput string) (analysis.Result, bool) {
	return ParseReply(llmOutput)
}

func (p *QualityPlugin) Validate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if n := len([]rune(text)); n > p.config.MaxTextLength {
		return fmt.Errorf("text too long: %d > %d", n, p.config.MaxTextLength)
	}
	return nil
}

// GetCacheKey 结果只依赖原文，对原文做 Hash
func (p *QualityPlugin) GetCacheKey(ctx context.Context, text string) string {
	return CacheKeyPrefix + util.SHA256Hex(text)
}

func (p *QualityPlugin) GetCacheTTL() int {
	return p.config.CacheTTL
}

func (p *QualityPlugin) MaxTextLength() int {
	return p.config.MaxTextLength
}
