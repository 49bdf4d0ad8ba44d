package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/user/bramify/internal/httpclient"
)

const defaultModel = "claude-3-opus-20240229"

// WorkAnalysis is the structured result of analyzing a user message for
// work information. Date is expected in DD-MM-YYYY but callers re-validate.
type WorkAnalysis struct {
	IsWorkEntry bool    `json:"is_work_entry"`
	Client      string  `json:"client"`
	Hours       float64 `json:"hours"`
	Billable    bool    `json:"billable"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourly_rate"`
}

// Client defines the interface for the language model collaborator.
type Client interface {
	// AnalyzeWorkEntry extracts structured work information from free text.
	// Output the model failed to structure comes back as a non-work entry,
	// not an error; errors mean the call itself failed.
	AnalyzeWorkEntry(ctx context.Context, text string) (*WorkAnalysis, error)
	// GenerateResponse produces a conversational reply for messages that
	// are not work entries.
	GenerateResponse(ctx context.Context, message string) (string, error)
}

// AnthropicClient implements Client against the Anthropic messages API.
type AnthropicClient struct {
	httpClient *httpclient.Client
	model      string
	maxTokens  int
}

// NewClient creates an AI client configured from configs/api.yaml.
func NewClient() (Client, error) {
	configs, err := httpclient.LoadConfig("configs/api.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load API configuration: %w", err)
	}

	clientConfig, err := configs.GetClientConfig("anthropic")
	if err != nil {
		return nil, fmt.Errorf("failed to get Anthropic client configuration: %w", err)
	}

	client, err := clientConfig.CreateClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &AnthropicClient{
		httpClient: client,
		model:      model,
		maxTokens:  1000,
	}, nil
}

// NewClientWithHTTP creates an AI client on an existing HTTP client. Used
// by tests and by callers that manage configuration themselves.
func NewClientWithHTTP(client *httpclient.Client, model string) *AnthropicClient {
	if model == "" {
		model = defaultModel
	}
	return &AnthropicClient{httpClient: client, model: model, maxTokens: 1000}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const analyzePrompt = `You are an assistant that extracts work registration information from text.
Analyze the text below and determine:

1. Whether it describes work that was performed (a work entry)
2. The client name
3. The number of hours worked
4. Whether the work is billable (default to true if unclear)
5. The date, in DD-MM-YYYY format (use %s if not specified)
6. A brief description of the work
7. The hourly rate, if mentioned (otherwise 0)

Respond with only a JSON object in this exact shape:
{
  "is_work_entry": true,
  "client": "client name or empty string",
  "hours": 0,
  "billable": true,
  "date": "DD-MM-YYYY",
  "description": "brief description",
  "hourly_rate": 0
}

Text: %s`

const chatSystemPrompt = `You are Bramify, a personal assistant specialized in work hour registration.
You help users track their work hours in a friendly, conversational manner.
Be concise, helpful, and maintain a professional but friendly tone.`

// AnalyzeWorkEntry extracts structured work information from free text.
func (c *AnthropicClient) AnalyzeWorkEntry(ctx context.Context, text string) (*WorkAnalysis, error) {
	today := time.Now().Format("02-01-2006")
	prompt := fmt.Sprintf(analyzePrompt, today, text)

	raw, err := c.complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("error analyzing work entry: %w", err)
	}

	jsonStr := extractJSONBlock(raw)
	if jsonStr == "" {
		log.Printf("No JSON object in model response, treating as conversation")
		return &WorkAnalysis{IsWorkEntry: false}, nil
	}

	var analysis WorkAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		log.Printf("Malformed JSON in model response: %v", err)
		return &WorkAnalysis{IsWorkEntry: false}, nil
	}

	if analysis.Date == "" {
		analysis.Date = today
	}

	return &analysis, nil
}

// GenerateResponse produces a conversational reply.
func (c *AnthropicClient) GenerateResponse(ctx context.Context, msg string) (string, error) {
	reply, err := c.complete(ctx, chatSystemPrompt, msg)
	if err != nil {
		return "", fmt.Errorf("error generating response: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// complete sends one user message and returns the concatenated text blocks
// of the model's reply.
func (c *AnthropicClient) complete(ctx context.Context, system, userMessage string) (string, error) {
	request := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: userMessage}},
	}

	var response messagesResponse
	if err := c.httpClient.Post(ctx, "messages", request, &response); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty model response")
	}

	return text.String(), nil
}
