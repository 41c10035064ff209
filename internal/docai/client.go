// Package docai is a thin REST client for the Document AI service. It
// implements both the extraction call used by the processing flow and the
// processor-management calls used by the admin surface. Calls are blocking
// and never retried; failures surface to the caller unmodified.
package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"poflow/internal/config"
	"poflow/internal/domain"
	"poflow/internal/port"
)

const (
	apiVersion = "v1beta3"

	// processorType is the only processor type this application manages.
	processorType = "CUSTOM_EXTRACTION_PROCESSOR"
)

// Client talks to the Document AI REST API.
type Client struct {
	projectID string
	location  string
	endpoint  string
	token     string
	client    *http.Client
}

// NewClient creates a Document AI client from config. The API endpoint is
// derived from the configured location unless overridden.
func NewClient(cfg *config.DocAIConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s-documentai.googleapis.com", cfg.Location)
	}
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.DocAIConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.DocAIConfig, endpoint string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		projectID: cfg.ProjectID,
		location:  cfg.Location,
		endpoint:  endpoint,
		token:     cfg.AccessToken,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.projectID, c.location)
}

// do sends a JSON request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"/"+apiVersion+"/"+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: calling document ai: %v", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrProcessorNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: document ai %s %s (status %d): %s",
			domain.ErrUpstream, method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// wire types

type entity struct {
	Type            string  `json:"type"`
	MentionText     string  `json:"mentionText"`
	Confidence      float64 `json:"confidence"`
	NormalizedValue *struct {
		Text string `json:"text"`
	} `json:"normalizedValue"`
}

type processDocumentResponse struct {
	Document struct {
		Text     string   `json:"text"`
		Entities []entity `json:"entities"`
	} `json:"document"`
}

type wireProcessor struct {
	Name                    string    `json:"name"`
	DisplayName             string    `json:"displayName"`
	State                   string    `json:"state"`
	Type                    string    `json:"type"`
	CreateTime              time.Time `json:"createTime"`
	DefaultProcessorVersion string    `json:"defaultProcessorVersion"`
}

func (p wireProcessor) toDomain() domain.Processor {
	return domain.Processor{
		Name:           p.Name,
		DisplayName:    p.DisplayName,
		State:          p.State,
		Type:           p.Type,
		CreateTime:     p.CreateTime,
		DefaultVersion: p.DefaultProcessorVersion,
	}
}

type schemaProperty struct {
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Description    string `json:"description"`
	ValueType      string `json:"valueType"`
	OccurrenceType string `json:"occurrenceType"`
	Method         string `json:"method,omitempty"`
}

type datasetSchema struct {
	DocumentSchema struct {
		EntityTypes []struct {
			Name       string           `json:"name"`
			BaseTypes  []string         `json:"baseTypes"`
			Properties []schemaProperty `json:"properties"`
		} `json:"entityTypes"`
	} `json:"documentSchema"`
}

// Extract runs a document through a processor and flattens the returned
// entities into the field map. Repeated entity types get a numeric suffix
// (line_item, line_item_2, ...) since the record schema keys fields by
// name. Aggregate confidence is the mean over all entities.
func (c *Client) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	reqBody := map[string]interface{}{
		"rawDocument": map[string]string{
			"content":  base64.StdEncoding.EncodeToString(input.FileBytes),
			"mimeType": input.ContentType,
		},
	}

	var resp processDocumentResponse
	if err := c.do(ctx, http.MethodPost, input.ProcessorName+":process", reqBody, &resp); err != nil {
		return nil, err
	}

	fields := domain.ExtractedFields{}
	seen := map[string]int{}
	total := 0.0

	for _, e := range resp.Document.Entities {
		value := e.MentionText
		if e.NormalizedValue != nil && e.NormalizedValue.Text != "" {
			value = e.NormalizedValue.Text
		}

		name := e.Type
		seen[e.Type]++
		if n := seen[e.Type]; n > 1 {
			name = fmt.Sprintf("%s_%d", e.Type, n)
		}

		fields[name] = domain.FieldValue{Value: value, Confidence: e.Confidence}
		total += e.Confidence
	}

	confidence := 0.0
	if len(resp.Document.Entities) > 0 {
		confidence = total / float64(len(resp.Document.Entities))
	}

	return &port.ExtractOutput{
		Fields:     fields,
		Confidence: confidence,
		RawText:    resp.Document.Text,
	}, nil
}

// ListProcessors returns the custom extraction processors in the project.
func (c *Client) ListProcessors(ctx context.Context) ([]domain.Processor, error) {
	var resp struct {
		Processors []wireProcessor `json:"processors"`
	}
	if err := c.do(ctx, http.MethodGet, c.parent()+"/processors", nil, &resp); err != nil {
		return nil, err
	}

	var processors []domain.Processor
	for _, p := range resp.Processors {
		if p.Type != processorType {
			continue
		}
		processors = append(processors, p.toDomain())
	}
	return processors, nil
}

// GetProcessorSchema returns a processor together with its dataset schema
// field definitions. A missing schema is not an error: the processor is
// returned with no fields.
func (c *Client) GetProcessorSchema(ctx context.Context, name string) (*domain.ProcessorDetail, error) {
	var proc wireProcessor
	if err := c.do(ctx, http.MethodGet, name, nil, &proc); err != nil {
		return nil, err
	}

	detail := &domain.ProcessorDetail{Processor: proc.toDomain()}

	var schema datasetSchema
	if err := c.do(ctx, http.MethodGet, name+"/dataset/datasetSchema", nil, &schema); err != nil {
		return detail, nil
	}

	for _, et := range schema.DocumentSchema.EntityTypes {
		for _, prop := range et.Properties {
			displayName := prop.DisplayName
			if displayName == "" {
				displayName = prop.Name
			}
			valueType := prop.ValueType
			if valueType == "" {
				valueType = "string"
			}
			kind := domain.FieldKindExtract
			if prop.Method == "DERIVE" {
				kind = domain.FieldKindDerive
			}
			detail.Fields = append(detail.Fields, domain.SchemaField{
				Name:        prop.Name,
				DisplayName: displayName,
				Description: prop.Description,
				Kind:        kind,
				Required:    prop.OccurrenceType == "REQUIRED_ONCE",
				ValueType:   valueType,
			})
		}
	}
	return detail, nil
}

// CreateProcessor registers a new custom extraction processor and pushes
// its zero-shot field schema.
func (c *Client) CreateProcessor(ctx context.Context, input port.CreateProcessorInput) (*domain.Processor, error) {
	createBody := map[string]string{
		"type":        processorType,
		"displayName": input.DisplayName,
	}

	var proc wireProcessor
	if err := c.do(ctx, http.MethodPost, c.parent()+"/processors", createBody, &proc); err != nil {
		return nil, err
	}

	properties := make([]schemaProperty, 0, len(input.Fields))
	for _, f := range input.Fields {
		occurrence := "OPTIONAL_ONCE"
		if f.Required {
			occurrence = "REQUIRED_ONCE"
		}
		method := "EXTRACT"
		if f.Kind == domain.FieldKindDerive {
			method = "DERIVE"
		}
		valueType := f.ValueType
		if valueType == "" {
			valueType = "string"
		}
		properties = append(properties, schemaProperty{
			Name:           f.Name,
			DisplayName:    f.DisplayName,
			Description:    f.Description,
			ValueType:      valueType,
			OccurrenceType: occurrence,
			Method:         method,
		})
	}

	schemaBody := map[string]interface{}{
		"documentSchema": map[string]interface{}{
			"description": input.Description,
			"entityTypes": []map[string]interface{}{
				{
					"name":       "custom_extraction_document_type",
					"baseTypes":  []string{"document"},
					"properties": properties,
				},
			},
		},
	}
	if err := c.do(ctx, http.MethodPatch, proc.Name+"/dataset/datasetSchema", schemaBody, nil); err != nil {
		return nil, err
	}

	result := proc.toDomain()
	return &result, nil
}

// DeleteProcessor removes a processor. The API returns a long-running
// operation; its completion is not awaited.
func (c *Client) DeleteProcessor(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, name, nil, nil)
}
