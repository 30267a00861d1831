package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"makeoverapi/flows"
)

// LLMModelName is the Gemini model a request goes to.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
	Flash25Image
	Flash20Image
)

var llmModels = []LLMModelName{Pro25, Flash25, FlashLite25, Flash20, Flash25Image, Flash20Image}

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite-preview-06-17"
	case Flash25Image:
		return "gemini-2.5-flash-image-preview"
	case Flash20Image:
		return "gemini-2.0-flash-preview-image-generation"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

// ParseLLMModelName maps a configured model id back to a known model.
func ParseLLMModelName(name string, fallback LLMModelName) LLMModelName {
	for _, model := range llmModels {
		if model.String() == strings.TrimSpace(name) {
			return model
		}
	}
	return fallback
}

func floatPointer(f float32) *float32 {
	return &f
}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

// GeminiStylist is the text and image generator behind the styling flows.
type GeminiStylist struct {
	client     *genai.Client
	textModel  LLMModelName
	imageModel LLMModelName
	logger     *zap.Logger
}

func NewGeminiStylist(ctx context.Context, apiKey string, textModel, imageModel LLMModelName, logger *zap.Logger) (*GeminiStylist, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiStylist{client: client, textModel: textModel, imageModel: imageModel, logger: logger}, nil
}

func (s *GeminiStylist) GenerateText(ctx context.Context, req flows.TextRequest) (*flows.TextResponse, error) {
	parts := make([]*genai.Part, 0, len(req.Media)+1)
	for _, media := range req.Media {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: media.MIMEType, Data: media.Data}})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	config := &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    floatPointer(0.8),
		SafetySettings: req.Safety,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}}
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.Schema
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: req.Tools}}
	}

	result, err := s.client.Models.GenerateContent(ctx, s.textModel.String(), []*genai.Content{{Parts: parts}}, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	s.logUsage("text", result)
	if err := checkPromptFeedback(result); err != nil {
		return nil, err
	}

	response := &flows.TextResponse{}
	if result.UsageMetadata != nil {
		response.InputTokenCount = result.UsageMetadata.PromptTokenCount
		response.OutputTokenCount = result.UsageMetadata.CandidatesTokenCount
	}
	for _, call := range result.FunctionCalls() {
		response.ToolCalls = append(response.ToolCalls, flows.ToolCall{Name: call.Name, Args: call.Args})
	}
	if len(response.ToolCalls) > 0 {
		return response, nil
	}

	text, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		return nil, err
	}
	response.Text = text.Text
	return response, nil
}

// GenerateImage returns the first generated image as a data URI, or "" when
// the model answered with text only.
func (s *GeminiStylist) GenerateImage(ctx context.Context, prompt string) (string, error) {
	result, err := s.client.Models.GenerateContent(ctx, s.imageModel.String(), genai.Text(prompt), &genai.GenerateContentConfig{
		CandidateCount:     1,
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	s.logUsage("image", result)
	if err := checkPromptFeedback(result); err != nil {
		return "", err
	}
	images, err := GetAllInlineImages(result)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", nil
	}
	return images[0].DataURI(), nil
}

func (s *GeminiStylist) logUsage(kind string, result *genai.GenerateContentResponse) {
	if s.logger == nil || result == nil || result.UsageMetadata == nil {
		return
	}
	s.logger.Info("genai usage",
		zap.String("kind", kind),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int32("input_tokens", result.UsageMetadata.PromptTokenCount),
		zap.Int32("output_tokens", result.UsageMetadata.CandidatesTokenCount),
		zap.Int32("thoughts_tokens", result.UsageMetadata.ThoughtsTokenCount),
		zap.Int32("total_tokens", result.UsageMetadata.TotalTokenCount),
	)
}

func checkPromptFeedback(result *genai.GenerateContentResponse) error {
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("content violation: %s %s", result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}
	return nil
}

func GetAllInlineImages(result *genai.GenerateContentResponse) ([]flows.InlineMedia, error) {
	if result == nil {
		return nil, fmt.Errorf("empty genai response")
	}

	var images []flows.InlineMedia
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content blocked by safety setting: %s", rating.Category)
			}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			inlineData := part.InlineData
			if inlineData == nil || !strings.HasPrefix(inlineData.MIMEType, "image/") || len(inlineData.Data) == 0 {
				continue
			}
			images = append(images, flows.InlineMedia{MIMEType: inlineData.MIMEType, Data: inlineData.Data})
		}
	}
	return images, nil
}

func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	var thinkingContent string
	for _, c := range result.Candidates {
		for _, rating := range c.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content violation: response blocked for %s", rating.Category)
			}
		}
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				thinkingContent = part.Text
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}
