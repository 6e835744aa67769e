package openai

import (
	"strings"
	"time"
)

type ProviderKind string

const (
	ProviderNone   ProviderKind = "none"
	ProviderGitHub ProviderKind = "github"
	ProviderAzure  ProviderKind = "azure"
	ProviderOpenAI ProviderKind = "openai"
)

const (
	GitHubModelsBaseURL    = "https://models.inference.ai.azure.com"
	DefaultModel           = "gpt-4o-mini"
	DefaultAzureAPIVersion = "2024-02-15-preview"
	defaultTimeout         = 30 * time.Second
)

// ProviderEnv is the raw credential material read from configuration.
type ProviderEnv struct {
	GitHubToken     string
	GitHubModel     string
	AzureKey        string
	AzureEndpoint   string
	AzureAPIVersion string
	AzureDeployment string
	OpenAIKey       string
	OpenAIModel     string
	OpenAIBaseURL   string
	Timeout         time.Duration
}

// Provider is the single resolved backend shared by every agent.
type Provider struct {
	Kind       ProviderKind
	APIKey     string
	BaseURL    string
	Model      string
	APIVersion string
	Timeout    time.Duration
}

func (p Provider) Enabled() bool { return p.Kind != "" && p.Kind != ProviderNone }

// ResolveProvider picks GitHub Models, then Azure OpenAI, then OpenAI. With no
// credentials it returns ProviderNone and every stage runs its fallback.
func ResolveProvider(env ProviderEnv) Provider {
	timeout := env.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if tok := strings.TrimSpace(env.GitHubToken); tok != "" {
		return Provider{
			Kind:    ProviderGitHub,
			APIKey:  tok,
			BaseURL: GitHubModelsBaseURL,
			Model:   orDefault(env.GitHubModel, DefaultModel),
			Timeout: timeout,
		}
	}
	if key, endpoint := strings.TrimSpace(env.AzureKey), strings.TrimSpace(env.AzureEndpoint); key != "" && endpoint != "" {
		return Provider{
			Kind:       ProviderAzure,
			APIKey:     key,
			BaseURL:    strings.TrimRight(endpoint, "/"),
			Model:      orDefault(env.AzureDeployment, DefaultModel),
			APIVersion: orDefault(env.AzureAPIVersion, DefaultAzureAPIVersion),
			Timeout:    timeout,
		}
	}
	if key := strings.TrimSpace(env.OpenAIKey); key != "" {
		return Provider{
			Kind:    ProviderOpenAI,
			APIKey:  key,
			BaseURL: strings.TrimSpace(env.OpenAIBaseURL),
			Model:   orDefault(env.OpenAIModel, DefaultModel),
			Timeout: timeout,
		}
	}
	return Provider{Kind: ProviderNone}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
