package evidence

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	images [][]byte
	audios [][]byte
}

func (s *fakeStore) AppendImage(ctx context.Context, eventId uuid.UUID, img []byte, limit int) (bool, error) {
	if limit > 0 && len(s.images) >= limit {
		return false, nil
	}
	s.images = append(s.images, img)
	return true, nil
}

func (s *fakeStore) AppendAudio(ctx context.Context, eventId uuid.UUID, audio []byte, limit int) (bool, error) {
	if limit > 0 && len(s.audios) >= limit {
		return false, nil
	}
	s.audios = append(s.audios, audio)
	return true, nil
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestRecordImageReencodes(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, 10, 10, DefaultSampleRate)

	stored, err := rec.RecordImage(context.Background(), uuid.New(), testJPEG(t))
	if err != nil {
		t.Fatalf("record image failed: %v", err)
	}
	if !stored {
		t.Fatal("image should have been stored")
	}
	if _, err := jpeg.Decode(bytes.NewReader(store.images[0])); err != nil {
		t.Fatalf("stored bytes are not a valid jpeg: %v", err)
	}
}

func TestRecordImageRejectsGarbage(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, 10, 10, DefaultSampleRate)

	if _, err := rec.RecordImage(context.Background(), uuid.New(), []byte("not a jpeg")); err == nil {
		t.Fatal("garbage frame should fail to decode")
	}
	if len(store.images) != 0 {
		t.Fatal("nothing should be stored for a bad frame")
	}
}

func TestRecordImageHonorsCap(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, 2, 10, DefaultSampleRate)
	frame := testJPEG(t)
	eventId := uuid.New()

	for i := 0; i < 5; i++ {
		if _, err := rec.RecordImage(context.Background(), eventId, frame); err != nil {
			t.Fatalf("record %d failed: %v", i, err)
		}
	}
	if len(store.images) != 2 {
		t.Errorf("stored %d images, want cap of 2", len(store.images))
	}
}

func TestRecordAudioWrapsWav(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, 10, 10, DefaultSampleRate)

	pcm := []byte{1, 2, 3, 4}
	stored, err := rec.RecordAudio(context.Background(), uuid.New(), pcm)
	if err != nil {
		t.Fatalf("record audio failed: %v", err)
	}
	if !stored {
		t.Fatal("audio should have been stored")
	}
	got := store.audios[0]
	if string(got[0:4]) != "RIFF" {
		t.Fatal("stored audio is not a wav file")
	}
	if !bytes.Equal(got[44:], pcm) {
		t.Fatal("pcm payload altered")
	}
}

func TestRecordAudioUsesConfiguredSampleRate(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, 10, 10, 16000)

	if _, err := rec.RecordAudio(context.Background(), uuid.New(), []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("record audio failed: %v", err)
	}
	got := store.audios[0]
	rate := binary.LittleEndian.Uint32(got[24:28])
	if rate != 16000 {
		t.Errorf("wav sample rate = %d, want 16000", rate)
	}
}

func TestRecordAudioSkipsEmptySegment(t *testing.T) {
	store := &fakeStore{}
	rec := NewRecorder(store, 10, 10, DefaultSampleRate)

	stored, err := rec.RecordAudio(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("record audio failed: %v", err)
	}
	if stored || len(store.audios) != 0 {
		t.Fatal("empty segment must not be stored")
	}
}
