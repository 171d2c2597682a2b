// Package session runs the per-attempt proctoring loops. A controller
// owns one attempt's video and audio sources, samples them on fixed
// intervals, calls the detectors under bounded deadlines, and hands
// findings to the aggregator. Stopping a controller cancels both loops
// and releases the media sources.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/pkg/detector"
	"exam-proctoring-be/pkg/detector/audio"
	"exam-proctoring-be/pkg/sensor"

	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle         Status = "idle"
	StatusRunning      Status = "running"
	StatusSubmitted    Status = "submitted"
	StatusTerminated   Status = "terminated"
	StatusDisconnected Status = "disconnected"
)

// Sink receives findings from the sampling loops.
type Sink interface {
	OnFinding(ctx context.Context, studentId, attemptId uuid.UUID, f detector.Finding) error
}

// Config carries the sampling cadence and detection thresholds.
type Config struct {
	FrameInterval     time.Duration
	DetectEveryNth    int
	AudioPollInterval time.Duration
	AudioThreshold    int
	AudioQuiet        time.Duration
	DetectorTimeout   time.Duration
}

type Controller struct {
	studentId uuid.UUID
	attemptId uuid.UUID

	videoFeed *sensor.VideoFeed
	audioFeed *sensor.AudioFeed

	objects detector.FrameClassifier
	gaze    detector.GazeClassifier
	sink    Sink
	cfg     Config
	log     logger.ILogger

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewController(studentId, attemptId uuid.UUID, videoFeed *sensor.VideoFeed, audioFeed *sensor.AudioFeed,
	objects detector.FrameClassifier, gaze detector.GazeClassifier, sink Sink, cfg Config, log logger.ILogger) *Controller {
	return &Controller{
		studentId: studentId,
		attemptId: attemptId,
		videoFeed: videoFeed,
		audioFeed: audioFeed,
		objects:   objects,
		gaze:      gaze,
		sink:      sink,
		cfg:       cfg,
		log:       log,
		status:    StatusIdle,
	}
}

func (c *Controller) StudentId() uuid.UUID { return c.studentId }
func (c *Controller) AttemptId() uuid.UUID { return c.attemptId }

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start acquires both media sources and launches the sampling loops.
// Either source being unavailable fails the whole start; a half
// acquired source is released before returning.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusRunning {
		return sensor.ErrDeviceUnavailable
	}

	video, err := c.videoFeed.Acquire()
	if err != nil {
		return err
	}
	audioSrc, err := c.audioFeed.Acquire()
	if err != nil {
		video.Close()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.status = StatusRunning

	c.wg.Add(2)
	go c.videoLoop(loopCtx, video)
	go c.audioLoop(loopCtx, audioSrc)

	return nil
}

// Stop transitions a running controller to the given terminal status,
// cancels both loops, and waits for the sources to be released.
// Idempotent: later calls keep the first terminal status.
func (c *Controller) Stop(status Status) Status {
	c.mu.Lock()
	if c.status != StatusRunning {
		final := c.status
		c.mu.Unlock()
		return final
	}
	c.status = status
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	return status
}

func (c *Controller) videoLoop(ctx context.Context, src sensor.VideoSource) {
	defer c.wg.Done()
	defer src.Close()

	ticker := time.NewTicker(c.cfg.FrameInterval)
	defer ticker.Stop()

	frameCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		nextCtx, cancel := context.WithTimeout(ctx, c.cfg.FrameInterval)
		frame, err := src.Next(nextCtx)
		cancel()
		if err != nil {
			if errors.Is(err, sensor.ErrStreamEnded) || ctx.Err() != nil {
				return
			}
			// No frame pushed this interval; try again on the next tick.
			continue
		}

		frameCount++
		if c.cfg.DetectEveryNth > 1 && frameCount%c.cfg.DetectEveryNth != 0 {
			continue
		}
		c.analyzeFrame(ctx, frame)
	}
}

func (c *Controller) analyzeFrame(ctx context.Context, frame sensor.Frame) {
	detectCtx, cancel := context.WithTimeout(ctx, c.cfg.DetectorTimeout)
	defer cancel()

	labels, err := c.objects.Classify(detectCtx, frame.JPEG)
	if err != nil {
		c.log.Warn("session", "object detection failed, skipping sample", map[string]interface{}{
			"attempt_id": c.attemptId.String(),
			"error":      err.Error(),
		})
	} else {
		var objects []string
		for _, l := range labels {
			if l.Name != "person" {
				objects = append(objects, l.Name)
			}
		}
		if len(objects) > 0 {
			c.emit(ctx, detector.Finding{
				Kind:       detector.KindObject,
				Labels:     objects,
				Segment:    frame.JPEG,
				CapturedAt: frame.CapturedAt,
			})
		}
		if persons := detector.CountPersons(labels); persons > 1 {
			c.emit(ctx, detector.Finding{
				Kind:        detector.KindMultiplePersons,
				PersonCount: persons,
				Segment:     frame.JPEG,
				CapturedAt:  frame.CapturedAt,
			})
		}
	}

	gazeCtx, gazeCancel := context.WithTimeout(ctx, c.cfg.DetectorTimeout)
	defer gazeCancel()

	direction, faceFound, err := c.gaze.Direction(gazeCtx, frame.JPEG)
	if err != nil {
		c.log.Warn("session", "gaze detection failed, skipping sample", map[string]interface{}{
			"attempt_id": c.attemptId.String(),
			"error":      err.Error(),
		})
		return
	}
	if direction != detector.GazeCenter {
		c.emit(ctx, detector.Finding{
			Kind:       detector.KindGaze,
			Gaze:       direction,
			FaceFound:  faceFound,
			Segment:    frame.JPEG,
			CapturedAt: frame.CapturedAt,
		})
	}
}

func (c *Controller) audioLoop(ctx context.Context, src sensor.AudioSource) {
	defer c.wg.Done()
	defer src.Close()

	segmenter := audio.NewSegmenter(c.cfg.AudioThreshold, c.cfg.AudioQuiet)

	for {
		if ctx.Err() != nil {
			c.flushSegment(segmenter)
			return
		}

		nextCtx, cancel := context.WithTimeout(ctx, c.cfg.AudioPollInterval)
		chunk, err := src.Next(nextCtx)
		cancel()

		switch {
		case err == nil:
			if chunk.Peak() >= c.cfg.AudioThreshold {
				// Warn immediately; the evidence segment follows once
				// the noise dies down.
				c.emit(ctx, detector.Finding{
					Kind:       detector.KindAudio,
					CapturedAt: chunk.CapturedAt,
				})
			}
			if seg, ok := segmenter.Feed(chunk); ok {
				c.emitSegment(ctx, seg)
			}
		case errors.Is(err, context.DeadlineExceeded):
			if seg, ok := segmenter.Poll(time.Now()); ok {
				c.emitSegment(ctx, seg)
			}
		case errors.Is(err, sensor.ErrStreamEnded):
			c.flushSegment(segmenter)
			return
		default:
			c.flushSegment(segmenter)
			return
		}
	}
}

func (c *Controller) flushSegment(segmenter *audio.Segmenter) {
	if seg, ok := segmenter.Flush(); ok {
		c.emitSegment(context.Background(), seg)
	}
}

func (c *Controller) emitSegment(ctx context.Context, seg audio.Segment) {
	c.emit(ctx, detector.Finding{
		Kind:       detector.KindAudio,
		Segment:    seg.PCM,
		CapturedAt: seg.EndedAt,
	})
}

func (c *Controller) emit(ctx context.Context, f detector.Finding) {
	if err := c.sink.OnFinding(ctx, c.studentId, c.attemptId, f); err != nil {
		c.log.Warn("session", "finding rejected", map[string]interface{}{
			"attempt_id": c.attemptId.String(),
			"kind":       string(f.Kind),
			"error":      err.Error(),
		})
	}
}
