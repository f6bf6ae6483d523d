// Package gemini implements classifier.Service on the Google Gen AI SDK.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/jonwraymond/incidentops/classifier"
	"github.com/jonwraymond/incidentops/incident"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-3-flash-preview"

// ErrMissingAPIKey indicates a client was built without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Config configures a Client.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	// HTTPClient defaults to a client without a timeout; callers bound
	// requests through the context.
	HTTPClient *http.Client
}

// Client calls Models.GenerateContent and maps the reply to a
// classifier.Extraction.
type Client struct {
	model  string
	models *genai.Models
}

var _ classifier.Service = (*Client)(nil)

// New creates a Client. No request is made until Extract or Ping.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	gc, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &Client{model: model, models: gc.Models}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Extract sends text for structured extraction. With grounding enabled the
// request carries the Google Search tool and cited web sources are returned.
//
// API failures return *classifier.StatusError. Transport failures and
// unparseable bodies return plain errors.
func (c *Client) Extract(ctx context.Context, text string, grounding bool) (*classifier.Extraction, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema,
	}
	if grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(text), cfg)
	if err != nil {
		return nil, mapError("generate content", err)
	}
	return parseResponse(resp)
}

// Ping checks that the model is reachable with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.models.Get(ctx, c.model, nil); err != nil {
		return mapError("get model", err)
	}
	return nil
}

// mapError converts SDK API errors into *classifier.StatusError so the
// retry policy can see the HTTP status.
func mapError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return statusError(*apiErrPtr)
	}
	return fmt.Errorf("gemini: %s: %w", op, err)
}

func statusError(e genai.APIError) *classifier.StatusError {
	return &classifier.StatusError{Code: e.Code, Message: strings.TrimSpace(e.Message)}
}

func parseResponse(resp *genai.GenerateContentResponse) (*classifier.Extraction, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("gemini: response has no candidates")
	}
	cand := resp.Candidates[0]

	var sb strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p != nil && !p.Thought {
				sb.WriteString(p.Text)
			}
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		text = "{}"
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var rec extractedRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("gemini: decode extraction: %w", err)
	}

	ext := &classifier.Extraction{
		Summary:       rec.Summary,
		Type:          rec.Type,
		Severity:      rec.Severity,
		PriorityScore: rec.PriorityScore,
	}
	if rec.Coords != nil {
		ext.Coords = &incident.Coordinates{Lat: rec.Coords.Lat, Lng: rec.Coords.Lng}
	}
	if gm := cand.GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			ext.Sources = append(ext.Sources, incident.GroundingSource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return ext, nil
}
