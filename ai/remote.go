package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RemoteGateway calls the booth's AI API server over HTTP. The service
// accepts a JSON body with the model name, prompt and a fetchable image
// URL and answers with the stored result paths.
type RemoteGateway struct {
	baseURL       string
	model         string
	publicBaseURL string
	client        *http.Client
}

type generateRequest struct {
	ModelName    string `json:"model_name"`
	Prompt       string `json:"prompt"`
	BaseImageURL string `json:"base_image_url"`
}

type generateResponse struct {
	Status     string   `json:"status"`
	ImagePaths []string `json:"image_paths"`
	Detail     string   `json:"detail"`
}

// NewRemoteGateway builds a gateway against baseURL. timeout bounds the
// whole request; stylization is slow, so give it room.
func NewRemoteGateway(baseURL, model, publicBaseURL string, timeout time.Duration) *RemoteGateway {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &RemoteGateway{
		baseURL:       baseURL,
		model:         model,
		publicBaseURL: publicBaseURL,
		client:        &http.Client{Timeout: timeout},
	}
}

// Stylize submits the image and interprets the response. All remote
// failures map to the failure result variant.
func (g *RemoteGateway) Stylize(ctx context.Context, originalURL, caption string) Result {
	body, err := json.Marshal(generateRequest{
		ModelName:    g.model,
		Prompt:       BuildPrompt(caption),
		BaseImageURL: resolveURL(g.publicBaseURL, originalURL),
	})
	if err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate-image/", bytes.NewReader(body))
	if err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("ai service unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{OK: false, Reason: fmt.Sprintf("ai service returned status %d", resp.StatusCode)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{OK: false, Reason: fmt.Sprintf("decode ai response: %v", err)}
	}

	if out.Status != "success" || len(out.ImagePaths) == 0 {
		reason := out.Detail
		if reason == "" {
			reason = "ai generation failed"
		}
		return Result{OK: false, Reason: reason}
	}

	return Result{OK: true, CartoonURL: out.ImagePaths[0]}
}
