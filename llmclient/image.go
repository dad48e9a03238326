package llmclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// maxImageFetchBytes bounds the body read when re-encoding a remote image URL.
const maxImageFetchBytes = 24 << 20

var dataURIPattern = regexp.MustCompile(`data:(image/[a-z0-9.+-]+);base64,([A-Za-z0-9+/=]+)`)

var imageURLPattern = regexp.MustCompile(`https?://[^\s"'<>)]+`)

// GenerateImage produces one image for the prompt. Reference images, when
// supplied, are sent inline alongside the prompt. The first request asks for
// mixed image+text output; if that yields nothing usable, one retry requests
// image-only output. The first image found is returned, whether it arrived as
// an inline base64 payload or as a remote URL (fetched and re-encoded).
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (*ImageResult, error) {
	model := c.cfg.ImageModel
	if !c.catalog.SupportsImages(model) {
		return nil, &CapabilityError{Model: model, Capability: "image generation"}
	}
	if len(opts.ReferenceImages) > MaxReferenceImages {
		return nil, fmt.Errorf("too many reference images: %d (limit %d)", len(opts.ReferenceImages), MaxReferenceImages)
	}

	if len(opts.ReferenceImages) > 0 {
		return c.generateImageFromReferences(ctx, model, prompt, opts)
	}
	return c.generateImageDirect(ctx, model, prompt, opts)
}

// generateImageDirect uses the images endpoint. The first attempt requests an
// inline base64 payload; if the service returns nothing usable, one retry
// requests a URL instead.
func (c *Client) generateImageDirect(ctx context.Context, model, prompt string, opts ImageOptions) (*ImageResult, error) {
	size := opts.Size
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	formats := []string{openai.CreateImageResponseFormatB64JSON, openai.CreateImageResponseFormatURL}
	var lastDetail string
	for _, format := range formats {
		rec := callRecord{ID: newCallID(), Method: methodImage, Schema: "image", Fingerprint: fingerprint(prompt)}
		start := time.Now()
		resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
			Prompt:         prompt,
			Model:          model,
			N:              1,
			Size:           size,
			ResponseFormat: format,
		})
		rec.Duration = time.Since(start)
		if err != nil {
			rec.Err = &TransportError{Method: methodImage, StatusCode: statusCode(err), Cause: err}
			c.tel.record(rec)
			return nil, rec.Err
		}

		result, detail := c.imageFromData(ctx, resp.Data)
		if result != nil {
			rec.Success = true
			c.tel.record(rec)
			return result, nil
		}
		lastDetail = detail
		rec.Err = &ImageError{Model: model, Detail: detail}
		c.tel.record(rec)
	}
	return nil, &ImageError{Model: model, Detail: lastDetail}
}

func (c *Client) imageFromData(ctx context.Context, data []openai.ImageResponseDataInner) (*ImageResult, string) {
	for _, d := range data {
		if d.B64JSON != "" {
			return &ImageResult{Base64: d.B64JSON, MIMEType: "image/png", RevisedPrompt: d.RevisedPrompt}, ""
		}
		if d.URL != "" {
			b64, mime, err := c.fetchImage(ctx, d.URL)
			if err != nil {
				return nil, fmt.Sprintf("fetching image URL: %v", err)
			}
			return &ImageResult{Base64: b64, MIMEType: mime, RevisedPrompt: d.RevisedPrompt}, ""
		}
	}
	return nil, "empty image data"
}

// generateImageFromReferences sends the prompt and inline reference images
// through the chat endpoint and probes the reply for an image.
func (c *Client) generateImageFromReferences(ctx context.Context, model, prompt string, opts ImageOptions) (*ImageResult, error) {
	instructions := []string{
		"Generate an image for the following request and include a one-sentence caption.",
		"Generate only an image for the following request. Respond with the image and nothing else.",
	}

	var lastDetail string
	for _, instruction := range instructions {
		rec := callRecord{ID: newCallID(), Method: methodImage, Schema: "image", Fingerprint: fingerprint(prompt)}
		start := time.Now()
		resp, err := c.api.CreateChatCompletion(ctx, c.referenceImageRequest(model, instruction+"\n\n"+prompt, opts))
		rec.Duration = time.Since(start)
		if err != nil {
			rec.Err = &TransportError{Method: methodImage, StatusCode: statusCode(err), Cause: err}
			c.tel.record(rec)
			return nil, rec.Err
		}

		result, detail := c.imageFromChat(ctx, resp)
		if result != nil {
			rec.Success = true
			c.tel.record(rec)
			return result, nil
		}
		lastDetail = detail
		rec.Err = &ImageError{Model: model, Detail: detail}
		c.tel.record(rec)
	}
	return nil, &ImageError{Model: model, Detail: lastDetail}
}

func (c *Client) referenceImageRequest(model, prompt string, opts ImageOptions) openai.ChatCompletionRequest {
	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	}}
	for _, ref := range opts.ReferenceImages {
		mime := http.DetectContentType(ref)
		if !strings.HasPrefix(mime, "image/") {
			mime = "image/png"
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(ref),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	return openai.ChatCompletionRequest{
		Model:     model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, MultiContent: parts}},
		MaxTokens: c.cfg.MaxTokens,
	}
}

// imageFromChat probes a chat reply for the first image, as an inline data URI
// or a remote URL.
func (c *Client) imageFromChat(ctx context.Context, resp openai.ChatCompletionResponse) (*ImageResult, string) {
	for _, choice := range resp.Choices {
		content := choice.Message.Content
		if m := dataURIPattern.FindStringSubmatch(content); m != nil {
			return &ImageResult{Base64: m[2], MIMEType: m[1]}, ""
		}
		if url := imageURLPattern.FindString(content); url != "" {
			b64, mime, err := c.fetchImage(ctx, url)
			if err != nil {
				return nil, fmt.Sprintf("fetching image URL: %v", err)
			}
			return &ImageResult{Base64: b64, MIMEType: mime}, ""
		}
	}
	return nil, "no image in response"
}

// fetchImage downloads a remote image and re-encodes it to base64.
func (c *Client) fetchImage(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageFetchBytes))
	if err != nil {
		return "", "", err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(body)
	}
	return base64.StdEncoding.EncodeToString(body), mime, nil
}
