package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestParseLLMModelName(t *testing.T) {
	assert.Equal(t, Flash20, ParseLLMModelName("gemini-2.0-flash", Pro25))
	assert.Equal(t, Flash20Image, ParseLLMModelName(" gemini-2.0-flash-preview-image-generation ", Flash20))
	assert.Equal(t, Flash25, ParseLLMModelName("unknown-model", Flash25))
}

func TestGetAllInlineImages(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your outfit"},
				{InlineData: &genai.Blob{MIMEType: "text/plain", Data: []byte("x")}},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
			}}},
		},
	}
	images, err := GetAllInlineImages(result)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "data:image/png;base64,AQID", images[0].DataURI())

	images, err = GetAllInlineImages(&genai.GenerateContentResponse{})
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestGetAllInlineImagesBlocked(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			SafetyRatings: []*genai.SafetyRating{{Category: genai.HarmCategoryHarassment, Blocked: true}},
		}},
	}
	_, err := GetAllInlineImages(result)
	assert.Error(t, err)
}

func TestCheckPromptFeedback(t *testing.T) {
	assert.NoError(t, checkPromptFeedback(&genai.GenerateContentResponse{}))
	assert.NoError(t, checkPromptFeedback(&genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{}}))
	assert.Error(t, checkPromptFeedback(&genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety}}))
}

func TestObjectKeys(t *testing.T) {
	assert.True(t, IsAllowedImageFile("photo.JPG"))
	assert.False(t, IsAllowedImageFile("notes.pdf"))
	assert.Regexp(t, `^wardrobe/7/[0-9a-f-]{36}\.png$`, WardrobeImageKey(7, "Shirt.PNG"))
	assert.Equal(t, "looks/7/abc.jpg", LookImageKey(7, "abc"))
}
