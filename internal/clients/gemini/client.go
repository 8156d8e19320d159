// Package gemini provides the Gemini-backed dividend oracle client
package gemini

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/asanchez/divicast/internal/common"
	"github.com/asanchez/divicast/internal/interfaces"
	"github.com/asanchez/divicast/internal/models"
)

const (
	DefaultModel     = "gemini-3-pro-preview"
	DefaultTimeout   = 60 * time.Second
	DefaultRateLimit = 2 // requests per second
)

// Client implements the DividendOracle interface
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini oracle client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, models.NewTransportFailure("failed to create Gemini client", err)
	}

	c := &Client{
		client:  genaiClient,
		model:   DefaultModel,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// responseSchema is the machine-checkable output contract sent with every
// request. All listed fields are required; the decoder tolerates extras.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"results": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"company":          {Type: genai.TypeString},
					"ticker":           {Type: genai.TypeString},
					"exDividendDate":   {Type: genai.TypeString},
					"paymentDate":      {Type: genai.TypeString},
					"grossDivOriginal": {Type: genai.TypeNumber},
					"currency":         {Type: genai.TypeString},
					"exchangeRate":     {Type: genai.TypeNumber},
					"grossDivEur":      {Type: genai.TypeNumber},
					"totalGrossEur":    {Type: genai.TypeNumber},
					"originTaxRate":    {Type: genai.TypeNumber},
					"spanishTaxRate":   {Type: genai.TypeNumber},
					"netAmountEur":     {Type: genai.TypeNumber},
				},
				Required: []string{
					"company", "ticker", "exDividendDate", "paymentDate",
					"grossDivOriginal", "currency", "exchangeRate", "grossDivEur",
					"totalGrossEur", "originTaxRate", "spanishTaxRate", "netAmountEur",
				},
			},
		},
		"summary": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"totalCompanies": {Type: genai.TypeNumber},
				"totalGrossEur":  {Type: genai.TypeNumber},
				"totalNetEur":    {Type: genai.TypeNumber},
			},
			Required: []string{"totalCompanies", "totalGrossEur", "totalNetEur"},
		},
	},
	Required: []string{"results", "summary"},
}

// Analyze sends one structured dividend query and decodes the response.
// A single failed attempt surfaces immediately; there is no retry.
func (c *Client) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisPayload, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, models.NewTransportFailure("rate limiter wait", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug().
		Str("model", c.model).
		Str("month", req.Month).
		Int("year", req.Year).
		Msg("Sending dividend analysis query")

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, models.NewTransportFailure("generate content", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, models.NewSchemaFailure("response contained no content", err)
	}

	payload, err := decodeAnalysisPayload([]byte(text))
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("month", req.Month).
		Int("year", req.Year).
		Int("results", len(payload.Results)).
		Dur("duration", time.Since(start)).
		Msg("Dividend analysis response received")

	return payload, nil
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", models.NewSchemaFailure("no content generated", nil)
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// decodeAnalysisPayload decodes the one-shot JSON document, enforcing the
// structural contract: both top-level members must be present. Unknown
// fields are tolerated and ignored; wrong types are schema violations.
func decodeAnalysisPayload(data []byte) (*models.AnalysisPayload, error) {
	var envelope struct {
		Results json.RawMessage `json:"results"`
		Summary json.RawMessage `json:"summary"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, models.NewSchemaFailure("response is not valid JSON", err)
	}
	if len(envelope.Results) == 0 || string(envelope.Results) == "null" {
		return nil, models.NewSchemaFailure("missing required field: results", nil)
	}
	if len(envelope.Summary) == 0 || string(envelope.Summary) == "null" {
		return nil, models.NewSchemaFailure("missing required field: summary", nil)
	}

	payload := &models.AnalysisPayload{}
	if err := json.Unmarshal(envelope.Results, &payload.Results); err != nil {
		return nil, models.NewSchemaFailure("results does not match schema", err)
	}
	if err := json.Unmarshal(envelope.Summary, &payload.Summary); err != nil {
		return nil, models.NewSchemaFailure("summary does not match schema", err)
	}

	return payload, nil
}

// Ensure Client implements DividendOracle
var _ interfaces.DividendOracle = (*Client)(nil)
