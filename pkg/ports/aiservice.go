package ports

import (
	"context"
	"fmt"
	"image"
)

// AI service endpoints.
const (
	EndpointEnhance = "/api/enhance"
	EndpointUpscale = "/api/upscale"
	EndpointEdit    = "/api/edit"
)

// AIRequest is one call to the remote image service. Image is the encoded
// PNG of the current buffer.
type AIRequest struct {
	Endpoint  string
	Operation string
	Image     []byte
	Params    map[string]string
	RequestID string
}

// AIResult is a successful response with the fetched replacement image.
type AIResult struct {
	Image    image.Image
	ImageURL string
}

// AIService performs remote image operations. Implementations must honour
// ctx for both the request and the image download.
type AIService interface {
	Process(ctx context.Context, req AIRequest) (AIResult, error)
}

// RemoteError is a failure reported by the service itself, as opposed to a
// transport error.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("service error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service error: %s", e.Message)
}
