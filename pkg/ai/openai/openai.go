package openai

import (
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/docquery/factgraph/pkg/ai"
)

// Client implements ai.Client against an OpenAI-compatible chat API.
//
// A Client should be created using NewClient.
type Client struct {
	extractionModel string
	judgeModel      string

	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	chat *openai.Client
}

// NewClientParams defines the configuration for creating a Client.
//
// ExtractionModel is the default model for triple and entity extraction.
// JudgeModel is the default model for relevance verification; when empty,
// the extraction model is used.
type NewClientParams struct {
	ExtractionModel string
	JudgeModel      string

	BaseURL string
	APIKey  string
}

// NewClient creates a Client configured with the provided parameters.
//
// Example:
//
//	client := openai.NewClient(openai.NewClientParams{
//		ExtractionModel: "gpt-4o-mini",
//		APIKey:          os.Getenv("AI_CHAT_KEY"),
//	})
func NewClient(params NewClientParams) *Client {
	judge := params.JudgeModel
	if judge == "" {
		judge = params.ExtractionModel
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	chat := openai.NewClient(options...)

	return &Client{
		extractionModel: params.ExtractionModel,
		judgeModel:      judge,

		baseURL: params.BaseURL,
		apiKey:  params.APIKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		chat: &chat,
	}
}

// JudgeModel returns the configured relevance-judgment model name.
func (c *Client) JudgeModel() string {
	return c.judgeModel
}

// GetMetrics returns the metrics accumulated across all calls on this client.
func (c *Client) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

// ResetMetrics clears the accumulated metrics.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

func (c *Client) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}
