package chat

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

// NewAzureClient returns an Azure OpenAI client. Every model name is routed to deployment.
func NewAzureClient(endpoint, apiKey, deployment, apiVersion string) *openai.Client {
	cfg := openai.DefaultAzureConfig(apiKey, strings.TrimRight(endpoint, "/"))
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	cfg.AzureModelMapperFunc = func(string) string {
		return deployment
	}
	return openai.NewClientWithConfig(cfg)
}
