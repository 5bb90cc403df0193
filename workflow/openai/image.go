// Package openai provides a provider-routed implementation of the image
// capability using the OpenAI Images API. It is configuration-gated: the
// workflow reports available only when an API key is present.
package openai

import (
	"bytes"
	"context"
	"fmt"

	"github.com/notefold/aimesh/workflow"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI image workflow.
type Options struct {
	// APIKey gates availability. When empty the workflow stays registered
	// but is skipped by availability resolution.
	APIKey string

	// Model used for generation. Edits always use dall-e-2, the only
	// model accepting an input image on the edit endpoint we target.
	Model openai.ImageModel

	// Size of generated images.
	Size openai.ImageGenerateParamsSize
}

// Image routes image generation and editing to OpenAI.
type Image struct {
	client *openai.Client
	opts   Options
}

// NewImage creates the OpenAI image workflow.
func NewImage(optFns ...func(o *Options)) *Image {
	opts := Options{
		Model: openai.ImageModelDallE3,
		Size:  openai.ImageGenerateParamsSize1024x1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)

	return &Image{client: &client, opts: opts}
}

// Info implements workflow.Workflow.
func (i *Image) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeImage,
		ID:          "openai",
		Name:        "OpenAI Image",
		Description: "Generates and edits images via the OpenAI Images API",
	}
}

// Available implements workflow.Workflow.
func (i *Image) Available() bool { return i.opts.APIKey != "" }

// Generate implements workflow.Image.
func (i *Image) Generate(ctx context.Context, req workflow.ImageRequest) (*workflow.ImageResult, error) {
	size := i.opts.Size
	if req.Size != "" {
		size = openai.ImageGenerateParamsSize(req.Size)
	}

	resp, err := i.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          i.opts.Model,
		N:              openai.Int(1),
		Size:           size,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image generate: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai image generate: no image returned")
	}

	return &workflow.ImageResult{
		URL:      resp.Data[0].URL,
		Data:     resp.Data[0].B64JSON,
		MimeType: "image/png",
	}, nil
}

// Edit implements workflow.Image.
func (i *Image) Edit(ctx context.Context, req workflow.ImageEditRequest) (*workflow.ImageResult, error) {
	mime := req.MimeType
	if mime == "" {
		mime = "image/png"
	}

	resp, err := i.client.Images.Edit(ctx, openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(req.Image), "image.png", mime),
		},
		Prompt:         req.Prompt,
		Model:          openai.ImageModelDallE2,
		N:              openai.Int(1),
		ResponseFormat: openai.ImageEditParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image edit: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai image edit: no image returned")
	}

	return &workflow.ImageResult{
		URL:      resp.Data[0].URL,
		Data:     resp.Data[0].B64JSON,
		MimeType: "image/png",
	}, nil
}
