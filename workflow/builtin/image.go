package builtin

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/notefold/aimesh/workflow"
)

// Image is the always-available image implementation. It renders a
// deterministic SVG placeholder carrying the prompt text, so upload and
// preview flows keep working in deployments without an image provider.
type Image struct{}

// NewImage creates the builtin image workflow.
func NewImage() *Image { return &Image{} }

// Info implements workflow.Workflow.
func (i *Image) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeImage,
		ID:          "builtin",
		Name:        "Builtin Image",
		Description: "Renders SVG placeholder images locally without external services",
	}
}

// Available implements workflow.Workflow.
func (i *Image) Available() bool { return true }

// Generate implements workflow.Image.
func (i *Image) Generate(_ context.Context, req workflow.ImageRequest) (*workflow.ImageResult, error) {
	return placeholder(req.Prompt, req.Size), nil
}

// Edit implements workflow.Image. The builtin cannot transform pixels; it
// re-renders a placeholder annotated with the edit prompt.
func (i *Image) Edit(_ context.Context, req workflow.ImageEditRequest) (*workflow.ImageResult, error) {
	return placeholder("edit: "+req.Prompt, ""), nil
}

func placeholder(label, size string) *workflow.ImageResult {
	w, h := 1024, 1024
	if size != "" {
		fmt.Sscanf(size, "%dx%d", &w, &h)
	}
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="100%%" height="100%%" fill="#e2e8f0"/><text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" fill="#475569">%s</text></svg>`,
		w, h, label,
	)
	return &workflow.ImageResult{
		Data:     base64.StdEncoding.EncodeToString([]byte(svg)),
		MimeType: "image/svg+xml",
	}
}
