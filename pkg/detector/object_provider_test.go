package detector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestObjectProviderFiltersLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(objectDetectResponse{
			Detections: []Label{
				{Name: "person", Confidence: 0.9},
				{Name: "cell phone", Confidence: 0.45}, // below threshold
				{Name: "book", Confidence: 0.8},
				{Name: "laptop", Confidence: 0.99}, // not watched
			},
		})
	}))
	defer server.Close()

	provider := NewHTTPObjectProvider(server.URL, 0.5, time.Second)
	labels, err := provider.Classify(context.Background(), []byte("jpeg"))
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2: %+v", len(labels), labels)
	}
	if labels[0].Name != "person" || labels[1].Name != "book" {
		t.Errorf("unexpected labels: %+v", labels)
	}
}

func TestObjectProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewHTTPObjectProvider(server.URL, 0.5, time.Second)
	if _, err := provider.Classify(context.Background(), []byte("jpeg")); !errors.Is(err, ErrDetectorFailure) {
		t.Fatalf("want ErrDetectorFailure, got %v", err)
	}
}

func TestObjectProviderDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(objectDetectResponse{})
	}))
	defer server.Close()

	provider := NewHTTPObjectProvider(server.URL, 0.5, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := provider.Classify(ctx, []byte("jpeg")); !errors.Is(err, ErrDetectorFailure) {
		t.Fatalf("want ErrDetectorFailure on deadline, got %v", err)
	}
}

func TestGazeProviderDirectionRule(t *testing.T) {
	tests := []struct {
		name      string
		faceFound bool
		ratio     float64
		wantGaze  Gaze
		wantFace  bool
	}{
		{name: "looking left", faceFound: true, ratio: 0.2, wantGaze: GazeLeft, wantFace: true},
		{name: "looking right", faceFound: true, ratio: 0.8, wantGaze: GazeRight, wantFace: true},
		{name: "center", faceFound: true, ratio: 0.5, wantGaze: GazeCenter, wantFace: true},
		{name: "left boundary stays center", faceFound: true, ratio: 0.4, wantGaze: GazeCenter, wantFace: true},
		{name: "no face defaults center", faceFound: false, ratio: 0.9, wantGaze: GazeCenter, wantFace: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(gazeResponse{
					FaceFound:       tt.faceFound,
					HorizontalRatio: tt.ratio,
				})
			}))
			defer server.Close()

			provider := NewHTTPGazeProvider(server.URL, time.Second)
			gaze, faceFound, err := provider.Direction(context.Background(), []byte("jpeg"))
			if err != nil {
				t.Fatalf("direction failed: %v", err)
			}
			if gaze != tt.wantGaze {
				t.Errorf("gaze = %s, want %s", gaze, tt.wantGaze)
			}
			if faceFound != tt.wantFace {
				t.Errorf("faceFound = %v, want %v", faceFound, tt.wantFace)
			}
		})
	}
}

func TestCountPersons(t *testing.T) {
	labels := []Label{
		{Name: "person", Confidence: 0.9},
		{Name: "book", Confidence: 0.8},
		{Name: "person", Confidence: 0.7},
	}
	if got := CountPersons(labels); got != 2 {
		t.Errorf("CountPersons = %d, want 2", got)
	}
}
