// Package detector adapts external inference services (object detection,
// gaze tracking, face analysis) behind small Go interfaces. Providers
// speak JSON over HTTP to model servers and apply the platform's
// confidence and direction rules before handing findings upstream.
package detector

import (
	"context"
	"errors"
	"time"
)

// Kind tags what a finding is about.
type Kind string

const (
	KindObject          Kind = "object"
	KindMultiplePersons Kind = "multiple_persons"
	KindGaze            Kind = "gaze"
	KindAudio           Kind = "audio"
)

// Gaze direction values reported by the gaze classifier.
type Gaze string

const (
	GazeCenter Gaze = "center"
	GazeLeft   Gaze = "left"
	GazeRight  Gaze = "right"
)

// ErrDetectorFailure wraps transport and model-server errors, including
// deadline expiry; the caller treats the sample as yielding no finding.
var ErrDetectorFailure = errors.New("detector: inference failed")

// Label is a detected object class with model confidence.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Finding is a single detector verdict on one media sample.
type Finding struct {
	Kind        Kind
	Labels      []string
	PersonCount int
	Gaze        Gaze
	FaceFound   bool
	Segment     []byte
	CapturedAt  time.Time
}

// FrameClassifier detects objects of interest in a webcam frame.
type FrameClassifier interface {
	Classify(ctx context.Context, jpeg []byte) ([]Label, error)
}

// GazeClassifier reports where the candidate is looking.
// FaceFound is false when no face landmarks were resolved; direction is
// then reported as center.
type GazeClassifier interface {
	Direction(ctx context.Context, jpeg []byte) (Gaze, bool, error)
}

// FaceAnalyzer extracts a face embedding from a frame, used at
// registration time.
type FaceAnalyzer interface {
	Encode(ctx context.Context, jpeg []byte) ([]float32, error)
}
