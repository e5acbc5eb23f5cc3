// Package inference provides ONNX Runtime integration for running
// segmentation models, producing per-pixel probability grids ready for
// threshold canonicalization.
package inference

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Session wraps an ONNX Runtime session for single-channel segmentation
// inference.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	// Check file exists
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	// Input/output names from model inspection: one grayscale image in,
	// one logit plane out.
	inputNames := []string{"input"}
	outputNames := []string{"logits"}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Predict runs the model on a height x width image in row-major order
// and returns per-pixel foreground probabilities in the same layout.
func (s *Session) Predict(ctx context.Context, image []float32, height, width int) ([]float64, error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if height <= 0 || width <= 0 || len(image) != height*width {
		return nil, fmt.Errorf("%w: %dx%d image with %d pixels",
			ErrBadImage, height, width, len(image))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	// NCHW with a singleton batch and channel.
	inputTensor, err := ort.NewTensor(
		ort.NewShape(1, 1, int64(height), int64(width)),
		image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer func() { _ = inputTensor.Destroy() }()

	inputs := []ort.Value{inputTensor}

	// Nil entries are allocated by Run.
	outputs := []ort.Value{nil}

	if err := s.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}

	if outputs[0] == nil {
		return nil, fmt.Errorf("no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type")
	}

	n := height * width
	outputData := logitsTensor.GetData()
	if len(outputData) < n {
		return nil, fmt.Errorf("output holds %d values, want %d", len(outputData), n)
	}

	probs := make([]float64, n)
	for i, logit := range outputData[:n] {
		probs[i] = sigmoid(logit)
	}
	return probs, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}

func sigmoid(x float32) float64 {
	return 1.0 / (1.0 + math.Exp(float64(-x)))
}
