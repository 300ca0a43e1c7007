package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gosim-wonderland/wonderland-server/storage"
	"google.golang.org/genai"
)

// GeminiGateway stylizes through the Gemini image model directly instead
// of the HTTP AI service. The generated image bytes come back inline, so
// this backend stores them through the media store itself and any text
// part becomes the photo's ai_description.
type GeminiGateway struct {
	client        *genai.Client
	model         string
	media         storage.MediaStore
	publicBaseURL string
	fetcher       *http.Client
}

// NewGeminiGateway builds the gateway. API credentials come from the
// GEMINI_API_KEY / GOOGLE_API_KEY environment the genai client reads.
func NewGeminiGateway(ctx context.Context, model string, media storage.MediaStore, publicBaseURL string) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}
	return &GeminiGateway{
		client:        client,
		model:         model,
		media:         media,
		publicBaseURL: publicBaseURL,
		fetcher:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Stylize fetches the original, sends it with the prompt and stores the
// returned image. Remote failures map to the failure result variant.
func (g *GeminiGateway) Stylize(ctx context.Context, originalURL, caption string) Result {
	imageBytes, err := g.fetchImage(ctx, resolveURL(g.publicBaseURL, originalURL))
	if err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("fetch original: %v", err)}
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(imageBytes, "image/jpeg"),
		genai.NewPartFromText(BuildPrompt(caption)),
	}, genai.RoleUser)

	result, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, &genai.GenerateContentConfig{})
	if err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("generate content: %v", err)}
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return Result{OK: false, Reason: "no content in response"}
	}

	var generated []byte
	var description string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 && generated == nil {
			generated = part.InlineData.Data
		}
		if part.Text != "" && description == "" {
			description = part.Text
		}
	}

	if len(generated) == 0 {
		return Result{OK: false, Reason: "no image data in response"}
	}

	name := fmt.Sprintf("cartoon_%d.png", time.Now().UnixNano())
	url, err := g.media.Save(ctx, bytes.NewReader(generated), name)
	if err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("store generated image: %v", err)}
	}

	return Result{OK: true, CartoonURL: url, Description: description}
}

func (g *GeminiGateway) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.fetcher.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
