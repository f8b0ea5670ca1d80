package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"MaintLens/internal/config"
	"MaintLens/internal/modules/analysis/domain/analysis"

	arkModel "github.com/cloudwego/eino-ext/components/model/ark"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

type ChatModelMeta struct {
	Provider string
	Model    string
}

// Credentials 解析后的模型凭据，启动时从配置和环境变量生成一次，注入给编排器
type Credentials struct {
	Provider        string
	APIKey          string
	AccessKey       string
	SecretKey       string
	Model           string
	BaseURL         string
	Region          string
	Timeout         time.Duration
	RetryTimes      int
	ByAzure         bool
	AzureAPIVersion string
}

// ChatModelFactory 根据凭据创建模型客户端；测试中替换为假模型
type ChatModelFactory func(ctx context.Context, cred Credentials) (model.BaseChatModel, ChatModelMeta, error)

// ResolveCredentials 配置优先，缺省时读取对应 provider 的环境变量
func ResolveCredentials(conf config.AIChatModelConfig) Credentials {
	return resolveCredentials(conf, os.Getenv)
}

func resolveCredentials(conf config.AIChatModelConfig, getenv func(string) string) Credentials {
	pick := func(v string, env string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			v = strings.TrimSpace(getenv(env))
		}
		return v
	}

	cred := Credentials{
		Provider:        strings.ToLower(strings.TrimSpace(conf.Provider)),
		Model:           strings.TrimSpace(conf.Model),
		BaseURL:         strings.TrimSpace(conf.BaseURL),
		Region:          strings.TrimSpace(conf.Region),
		Timeout:         2 * time.Minute,
		RetryTimes:      2,
		ByAzure:         conf.ByAzure,
		AzureAPIVersion: strings.TrimSpace(conf.AzureAPIVersion),
	}
	if conf.TimeoutSeconds > 0 {
		cred.Timeout = time.Duration(conf.TimeoutSeconds) * time.Second
	}
	if conf.RetryTimes > 0 {
		cred.RetryTimes = conf.RetryTimes
	}

	switch cred.Provider {
	case "openai":
		cred.APIKey = pick(conf.APIKey, "OPENAI_API_KEY")
		cred.Model = pick(conf.Model, "OPENAI_MODEL")
		cred.BaseURL = pick(conf.BaseURL, "OPENAI_BASE_URL")
	case "ark":
		cred.APIKey = pick(conf.APIKey, "ARK_API_KEY")
		cred.AccessKey = pick(conf.AccessKey, "ARK_ACCESS_KEY")
		cred.SecretKey = pick(conf.SecretKey, "ARK_SECRET_KEY")
		cred.Model = pick(conf.Model, "ARK_MODEL_ID")
		cred.BaseURL = pick(conf.BaseURL, "ARK_BASE_URL")
		cred.Region = pick(conf.Region, "ARK_REGION")
	}
	return cred
}

// Configured 是否具备发起调用所需的凭据，不做任何网络访问
func (c Credentials) Configured() bool {
	switch c.Provider {
	case "openai":
		return c.APIKey != "" && c.Model != ""
	case "ark":
		return (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != "")) && c.Model != ""
	}
	return false
}

// NewChatModel 默认的 ChatModelFactory
func NewChatModel(ctx context.Context, cred Credentials) (model.BaseChatModel, ChatModelMeta, error) {
	switch cred.Provider {
	case "", "disabled", "none":
		return nil, ChatModelMeta{}, fmt.Errorf("chat model provider not configured: %w", analysis.ErrMissingCredential)

	case "openai":
		if !cred.Configured() {
			return nil, ChatModelMeta{}, fmt.Errorf("openai chat model missing apiKey/model: %w", analysis.ErrMissingCredential)
		}
		cm, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
			APIKey:     cred.APIKey,
			Model:      cred.Model,
			BaseURL:    cred.BaseURL,
			ByAzure:    cred.ByAzure,
			APIVersion: cred.AzureAPIVersion,
			Timeout:    cred.Timeout,
		})
		if err != nil {
			return nil, ChatModelMeta{}, err
		}
		return cm, ChatModelMeta{Provider: "openai", Model: cred.Model}, nil

	case "ark":
		if !cred.Configured() {
			return nil, ChatModelMeta{}, fmt.Errorf("ark chat model missing apiKey or accessKey/secretKey or model: %w", analysis.ErrMissingCredential)
		}
		timeout := cred.Timeout
		retryTimes := cred.RetryTimes
		cm, err := arkModel.NewChatModel(ctx, &arkModel.ChatModelConfig{
			APIKey:     cred.APIKey,
			AccessKey:  cred.AccessKey,
			SecretKey:  cred.SecretKey,
			Model:      cred.Model,
			BaseURL:    cred.BaseURL,
			Region:     cred.Region,
			Timeout:    &timeout,
			RetryTimes: &retryTimes,
		})
		if err != nil {
			return nil, ChatModelMeta{}, err
		}
		return cm, ChatModelMeta{Provider: "ark", Model: cred.Model}, nil

	default:
		return nil, ChatModelMeta{}, fmt.Errorf("unknown chat model provider %s: %w", cred.Provider, analysis.ErrMissingCredential)
	}
}
