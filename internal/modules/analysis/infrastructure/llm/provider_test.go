package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"MaintLens/internal/config"
	"MaintLens/internal/modules/analysis/domain/analysis"

	"github.com/stretchr/testify/assert"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestResolveCredentialsPrefersConfig(t *testing.T) {
	cred := resolveCredentials(config.AIChatModelConfig{
		Provider:       " OpenAI ",
		APIKey:         "conf-key",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 30,
	}, fakeEnv(map[string]string{"OPENAI_API_KEY": "env-key", "OPENAI_MODEL": "env-model"}))

	assert.Equal(t, "openai", cred.Provider)
	assert.Equal(t, "conf-key", cred.APIKey)
	assert.Equal(t, "gpt-4o-mini", cred.Model)
	assert.Equal(t, 30*time.Second, cred.Timeout)
	assert.Equal(t, 2, cred.RetryTimes)
	assert.True(t, cred.Configured())
}

func TestResolveCredentialsFallsBackToEnv(t *testing.T) {
	cred := resolveCredentials(config.AIChatModelConfig{Provider: "ark"},
		fakeEnv(map[string]string{"ARK_ACCESS_KEY": "ak", "ARK_SECRET_KEY": "sk", "ARK_MODEL_ID": "ep-1"}))

	assert.Equal(t, "ak", cred.AccessKey)
	assert.Equal(t, "sk", cred.SecretKey)
	assert.Equal(t, "ep-1", cred.Model)
	assert.Equal(t, 2*time.Minute, cred.Timeout)
	assert.True(t, cred.Configured())
}

func TestConfigured(t *testing.T) {
	cases := []struct {
		name string
		cred Credentials
		want bool
	}{
		{"no provider", Credentials{APIKey: "k", Model: "m"}, false},
		{"openai without key", Credentials{Provider: "openai", Model: "m"}, false},
		{"openai without model", Credentials{Provider: "openai", APIKey: "k"}, false},
		{"openai ok", Credentials{Provider: "openai", APIKey: "k", Model: "m"}, true},
		{"ark access key only", Credentials{Provider: "ark", AccessKey: "a", Model: "m"}, false},
		{"ark api key", Credentials{Provider: "ark", APIKey: "k", Model: "m"}, true},
		{"unknown provider", Credentials{Provider: "llama", APIKey: "k", Model: "m"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cred.Configured())
		})
	}
}

func TestNewChatModelMissingCredential(t *testing.T) {
	for _, cred := range []Credentials{
		{},
		{Provider: "openai", Model: "m"},
		{Provider: "ark", APIKey: "k"},
		{Provider: "unknown"},
	} {
		_, _, err := NewChatModel(context.Background(), cred)
		assert.True(t, errors.Is(err, analysis.ErrMissingCredential), "%+v", cred)
	}
}
