package flows

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextRequest is one call to the text-generation service. Schema and Tools
// are mutually exclusive in practice: tool turns answer in free text.
type TextRequest struct {
	Prompt            string
	SystemInstruction string
	Schema            *genai.Schema
	Media             []InlineMedia
	Tools             []*genai.FunctionDeclaration
	Safety            []*genai.SafetySetting
}

type ToolCall struct {
	Name string
	Args map[string]any
}

type TextResponse struct {
	Text             string
	ToolCalls        []ToolCall
	InputTokenCount  int32
	OutputTokenCount int32
}

type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error)
}

// ImageGenerator returns a data URI for the first generated image or "" when
// the service answered without media.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// textStep renders the prompt, makes exactly one call and decodes the
// structured answer into out.
func (p *Pipeline) textStep(ctx context.Context, flow FlowName, name PromptName, data any, schema *genai.Schema, out any, opts ...func(*TextRequest)) error {
	prompt, err := RenderPrompt(name, data)
	if err != nil {
		return err
	}
	req := TextRequest{Prompt: prompt, Schema: schema}
	for _, opt := range opts {
		opt(&req)
	}
	resp, err := p.Text.GenerateText(ctx, req)
	if err != nil {
		return err
	}
	p.logger().Debug("text step finished",
		zap.String("flow", string(flow)),
		zap.Int32("input_tokens", resp.InputTokenCount),
		zap.Int32("output_tokens", resp.OutputTokenCount),
	)
	return decodeStructured(flow, resp.Text, schema, out)
}

func withMedia(media ...InlineMedia) func(*TextRequest) {
	return func(req *TextRequest) {
		req.Media = append(req.Media, media...)
	}
}

func withSafety(settings []*genai.SafetySetting) func(*TextRequest) {
	return func(req *TextRequest) {
		req.Safety = settings
	}
}

// imageStep applies the flow's image policy: decorative failures collapse
// into "", primary failures are returned.
func (p *Pipeline) imageStep(ctx context.Context, flow FlowName, prompt string) (string, error) {
	uri, err := p.Image.GenerateImage(ctx, prompt)
	if err == nil && uri != "" {
		return uri, nil
	}
	failure := &MediaGenerationFailure{Flow: flow, Err: err}
	if p.policies().For(flow) == ImagePrimary {
		return "", failure
	}
	p.logger().Warn("image step failed, continuing without image",
		zap.String("flow", string(flow)),
		zap.Error(failure),
	)
	return "", nil
}

func cleanResponseText(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func decodeStructured(flow FlowName, text string, schema *genai.Schema, out any) error {
	cleaned := cleanResponseText(text)
	if cleaned == "" {
		return &GenerationFormatError{Flow: flow, Reason: "is empty"}
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return &GenerationFormatError{Flow: flow, Reason: "is not a JSON object", Err: err}
	}
	if schema != nil {
		for _, field := range schema.Required {
			value, ok := raw[field]
			if !ok || value == nil {
				return &GenerationFormatError{Flow: flow, Field: field, Reason: "is missing"}
			}
			property := schema.Properties[field]
			if property == nil {
				continue
			}
			switch property.Type {
			case genai.TypeArray:
				items, ok := value.([]any)
				if !ok {
					return &GenerationFormatError{Flow: flow, Field: field, Reason: "is not an array"}
				}
				if len(items) == 0 {
					return &GenerationFormatError{Flow: flow, Field: field, Reason: "is empty"}
				}
			case genai.TypeString:
				s, ok := value.(string)
				if !ok {
					return &GenerationFormatError{Flow: flow, Field: field, Reason: "is not a string"}
				}
				if strings.TrimSpace(s) == "" {
					return &GenerationFormatError{Flow: flow, Field: field, Reason: "is empty"}
				}
			}
		}
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return &GenerationFormatError{Flow: flow, Reason: "does not match the output shape", Err: err}
	}
	return nil
}
