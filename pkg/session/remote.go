package session

import (
	"context"
	"errors"
	"image"
	"strconv"

	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/raster"
	"github.com/user/picly/pkg/task"
)

// RemoteOp names an operation of the remote image service.
type RemoteOp string

const (
	OpRemoveBackground RemoteOp = "remove_background"
	OpEnhanceFace      RemoteOp = "enhance_face"
	OpColorize         RemoteOp = "colorize"
	OpAutoEnhance      RemoteOp = "auto_enhance"
	OpUpscale          RemoteOp = "upscale"
	OpEdit             RemoteOp = "edit"
	OpStyleTransfer    RemoteOp = "style_transfer"
	OpInpaint          RemoteOp = "inpaint"
	OpObjectRemove     RemoteOp = "object_remove"
	OpClone            RemoteOp = "clone"
	OpMagicWand        RemoteOp = "magic_wand"
	OpText             RemoteOp = "text"
)

// RemoteOps lists every operation accepted by StartRemote.
func RemoteOps() []RemoteOp {
	return []RemoteOp{
		OpRemoveBackground, OpEnhanceFace, OpColorize, OpAutoEnhance, OpUpscale,
		OpEdit, OpStyleTransfer, OpInpaint, OpObjectRemove, OpClone, OpMagicWand, OpText,
	}
}

// ParseRemoteOp parses an operation name.
func ParseRemoteOp(s string) (RemoteOp, error) {
	for _, op := range RemoteOps() {
		if string(op) == s {
			return op, nil
		}
	}
	return "", editerr.NewInvalid("unknown remote operation: " + s)
}

// Label is the progress text shown while the operation runs.
func (op RemoteOp) Label() string {
	switch op {
	case OpRemoveBackground:
		return "Removing background with AI..."
	case OpEnhanceFace:
		return "Enhancing face with AI..."
	case OpColorize:
		return "Colorizing image with AI..."
	case OpAutoEnhance:
		return "Auto-enhancing image..."
	case OpUpscale:
		return "Upscaling image to 4x resolution..."
	}
	return "Processing with AI..."
}

func (op RemoteOp) needsPrompt() bool {
	return op == OpEdit || op == OpStyleTransfer
}

// RemoteRequest describes one remote operation. Zero Strength and Scale
// take the session defaults; an empty Region means the whole image.
type RemoteRequest struct {
	Op       RemoteOp
	Prompt   string
	Strength float64
	Scale    int
	Region   image.Rectangle
}

// RemoteOutcome describes an applied remote result.
type RemoteOutcome struct {
	RequestID string
	Op        RemoteOp
	ImageURL  string
	Width     int
	Height    int
	Seq       int
}

// endpoint maps the request onto the service endpoint and form fields.
func (r RemoteRequest) endpoint(opts Options) (string, map[string]string, error) {
	switch r.Op {
	case OpRemoveBackground, OpEnhanceFace, OpColorize, OpAutoEnhance:
		return ports.EndpointEnhance, map[string]string{"operation": string(r.Op)}, nil
	case OpUpscale:
		scale := r.Scale
		if scale <= 0 {
			scale = opts.UpscaleScale
		}
		return ports.EndpointUpscale, map[string]string{"scale": strconv.Itoa(scale)}, nil
	case OpEdit, OpStyleTransfer, OpInpaint, OpObjectRemove, OpClone, OpMagicWand, OpText:
	default:
		return "", nil, editerr.NewInvalid("unknown remote operation: " + string(r.Op))
	}

	if r.Op.needsPrompt() && r.Prompt == "" {
		return "", nil, editerr.NewInvalid("please enter a prompt")
	}
	strength := r.Strength
	if strength <= 0 {
		strength = opts.DefaultStrength
	}
	if strength > 1 {
		strength = 1
	}
	params := map[string]string{
		"mode":     string(r.Op),
		"prompt":   r.Prompt,
		"strength": strconv.FormatFloat(strength, 'f', -1, 64),
	}
	if !r.Region.Empty() {
		params["x"] = strconv.Itoa(r.Region.Min.X)
		params["y"] = strconv.Itoa(r.Region.Min.Y)
		params["width"] = strconv.Itoa(r.Region.Dx())
		params["height"] = strconv.Itoa(r.Region.Dy())
	}
	return ports.EndpointEdit, params, nil
}

// StartRemote sends the live buffer to the remote service and returns the
// running task. Only one remote operation runs at a time; a second call
// fails with a busy error until the first has been applied or has failed.
func (s *Session) StartRemote(ctx context.Context, req RemoteRequest) (*task.Task[RemoteOutcome], error) {
	s.mu.Lock()
	if !s.hasImage() {
		s.mu.Unlock()
		return nil, editerr.NewNoImage(string(req.Op))
	}
	if s.ai == nil || s.renderer == nil {
		s.mu.Unlock()
		return nil, editerr.NewInvalid("no remote service configured")
	}
	endpoint, params, err := req.endpoint(s.opts)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !s.busy.CompareAndSwap(false, true) {
		running := s.busyLabel
		s.mu.Unlock()
		return nil, editerr.NewBusy(running)
	}
	label := req.Op.Label()
	s.busyLabel = label
	gen := s.generation

	blob, err := s.renderer.EncodeImage(s.buf.Image(), ports.FormatPNG, 0)
	if err != nil {
		s.busyLabel = ""
		s.busy.Store(false)
		s.mu.Unlock()
		return nil, editerr.NewRemote(string(req.Op), err)
	}
	s.mu.Unlock()
	s.notifyBusy(true, label)

	aiReq := ports.AIRequest{
		Endpoint:  endpoint,
		Operation: string(req.Op),
		Image:     blob,
		Params:    params,
		RequestID: task.NewID(),
	}
	s.logger.Debug("%s [%s] %s", label, aiReq.RequestID, endpoint)

	return task.Go(ctx, label, func(ctx context.Context) (RemoteOutcome, error) {
		defer s.releaseBusy()
		res, err := s.ai.Process(ctx, aiReq)
		return s.applyRemote(gen, aiReq, res, err)
	}), nil
}

// RunRemote is StartRemote followed by waiting for the result.
func (s *Session) RunRemote(ctx context.Context, req RemoteRequest) (RemoteOutcome, error) {
	t, err := s.StartRemote(ctx, req)
	if err != nil {
		return RemoteOutcome{}, err
	}
	return t.Wait(ctx)
}

// applyRemote installs a successful result as a new checkpoint, or records
// the failure. The buffer is untouched on failure.
func (s *Session) applyRemote(gen int, req ports.AIRequest, res ports.AIResult, err error) (RemoteOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := RemoteOp(req.Operation)
	out := RemoteOutcome{RequestID: req.RequestID, Op: op, ImageURL: res.ImageURL}

	if err == nil && res.Image == nil {
		err = errors.New("service returned no image")
	}
	if err == nil && gen != s.generation {
		err = errors.New("image was replaced while the request was running")
	}
	if err != nil {
		wrapped := editerr.NewRemote(string(op), err)
		s.lastErr = wrapped
		s.counters.remoteFailures++
		s.logger.Error("%s [%s] failed: %v", op, req.RequestID, err)
		return out, wrapped
	}

	if s.ctrl.InFlight() {
		s.ctrl.Abort(s.doc())
	}
	s.ctrl.ClearOverlay()
	s.buf = raster.FromImage(res.Image)
	s.checkpointLocked("remote:" + string(op))
	s.view.FitToScreen(s.opts.ContainerWidth, s.opts.ContainerHeight, s.buf.Width(), s.buf.Height())
	s.counters.remoteOK++
	s.lastErr = nil

	cur, _ := s.hist.Current()
	out.Width = s.buf.Width()
	out.Height = s.buf.Height()
	out.Seq = cur.Seq
	s.logger.Debug("%s [%s] applied %dx%d", op, req.RequestID, out.Width, out.Height)
	return out, nil
}

func (s *Session) releaseBusy() {
	s.mu.Lock()
	s.busyLabel = ""
	s.busy.Store(false)
	s.mu.Unlock()
	s.notifyBusy(false, "")
}

func (s *Session) notifyBusy(busy bool, label string) {
	if s.onBusy != nil {
		s.onBusy(busy, label)
	}
}
