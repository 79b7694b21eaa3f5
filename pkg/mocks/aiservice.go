package mocks

import (
	"context"
	"image"
	"sync"

	"github.com/user/picly/pkg/ports"
)

// AIService is a ports.AIService stub. Without ProcessFunc it answers every
// request with a 4×4 opaque white image.
type AIService struct {
	ProcessFunc func(ctx context.Context, req ports.AIRequest) (ports.AIResult, error)

	mu       sync.Mutex
	requests []ports.AIRequest
}

func (m *AIService) Process(ctx context.Context, req ports.AIRequest) (ports.AIResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, req)
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return ports.AIResult{Image: img, ImageURL: "/static/results/mock.png"}, nil
}

// Requests returns every request received so far.
func (m *AIService) Requests() []ports.AIRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.AIRequest(nil), m.requests...)
}

var _ ports.AIService = (*AIService)(nil)
