// Package ai talks to the stylization service that turns booth photos into
// cartoons. The remote model is an opaque collaborator: every backend hides
// behind the one Gateway contract so upload handling never branches on the
// vendor in use.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Result is the outcome of one stylization attempt. Ordinary remote
// failures (timeout, non-2xx, malformed payload) land in the failure
// variant with a reason; they are never surfaced as Go errors.
type Result struct {
	OK          bool
	CartoonURL  string
	Description string
	Reason      string
}

// Gateway produces a stylized image reference for an original image and an
// optional user caption.
type Gateway interface {
	Stylize(ctx context.Context, originalURL, caption string) Result
}

// Disabled is the off switch: it reports a skip so callers take the
// no-AI path.
type Disabled struct{}

func (Disabled) Stylize(context.Context, string, string) Result {
	return Result{OK: false, Reason: "ai backend disabled"}
}

const basePrompt = "cartoon style, developer conference theme, open-source community spirit, modern clean design"

// BuildPrompt combines the fixed thematic phrase with the user's caption.
// Without a caption a richer default stands in.
func BuildPrompt(caption string) string {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return fmt.Sprintf("%s, professional developer portrait, tech atmosphere, subtle code elements in the background", basePrompt)
	}
	return fmt.Sprintf("%s, %s, highlight the conference community atmosphere", caption, basePrompt)
}

// resolveURL turns a store-relative image reference into one the remote
// service can fetch.
func resolveURL(publicBase, imageURL string) string {
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}
	return strings.TrimSuffix(publicBase, "/") + imageURL
}
