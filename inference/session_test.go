package inference

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

const testModelPath = "../testdata/unet_small.onnx"

func TestNewSession_FileNotFound(t *testing.T) {
	_, err := NewSession("../testdata/nonexistent.onnx")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got: %v", err)
	}
}

// openTestSession creates a session against the checked-in test model,
// skipping when the model or the ONNX runtime is unavailable.
func openTestSession(t *testing.T) *Session {
	t.Helper()

	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("Skipping: model not available at %s", testModelPath)
	}

	session, err := NewSession(testModelPath)
	if err != nil {
		if isORTUnavailableError(err) {
			t.Skipf("Skipping: ONNX runtime not available: %v", err)
		}
		t.Fatalf("NewSession failed: %v", err)
	}
	return session
}

func testImage(height, width int) []float32 {
	img := make([]float32, height*width)
	for i := range img {
		img[i] = float32(i%7) / 7.0
	}
	return img
}

func TestSession_Predict(t *testing.T) {
	session := openTestSession(t)
	defer func() { _ = session.Close() }()

	const h, w = 32, 32
	probs, err := session.Predict(context.Background(), testImage(h, w), h, w)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(probs) != h*w {
		t.Errorf("expected %d probabilities, got %d", h*w, len(probs))
	}
	for i, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probability %d = %v outside [0, 1]", i, p)
		}
	}
}

func TestSession_Predict_BadDimensions(t *testing.T) {
	session := openTestSession(t)
	defer func() { _ = session.Close() }()

	cases := []struct {
		name   string
		pixels int
		h, w   int
	}{
		{"short buffer", 10, 4, 4},
		{"zero height", 16, 0, 16},
		{"negative width", 16, 4, -4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := session.Predict(context.Background(), make([]float32, tc.pixels), tc.h, tc.w)
			if !errors.Is(err, ErrBadImage) {
				t.Errorf("expected ErrBadImage, got: %v", err)
			}
		})
	}
}

func TestSession_Predict_ContextCancellation(t *testing.T) {
	session := openTestSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Predict(ctx, testImage(8, 8), 8, 8)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got: %v", err)
	}
}

func TestSession_Predict_ContextTimeout(t *testing.T) {
	session := openTestSession(t)
	defer func() { _ = session.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	_, err := session.Predict(ctx, testImage(8, 8), 8, 8)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded error, got: %v", err)
	}
}

func TestSession_Close_Idempotent(t *testing.T) {
	session := openTestSession(t)

	if err := session.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSession_Predict_AfterClose(t *testing.T) {
	session := openTestSession(t)

	if err := session.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := session.Predict(context.Background(), testImage(8, 8), 8, 8)
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got: %v", err)
	}
}

// isORTUnavailableError checks if the error indicates ONNX runtime is not available.
func isORTUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// Common ONNX runtime unavailability indicators
	return strings.Contains(errStr, "onnxruntime") ||
		strings.Contains(errStr, "shared library") ||
		strings.Contains(errStr, "dylib") ||
		strings.Contains(errStr, ".so") ||
		strings.Contains(errStr, ".dll") ||
		strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "cannot open") ||
		strings.Contains(errStr, "initializing ONNX runtime")
}
