package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"bdeo/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestEncodeDecodeVideoEvent(t *testing.T) {
	evt := &model.VideoEvent{
		Type:       model.VideoEventLiked,
		VideoID:    7,
		Filename:   "cat.mp4",
		Likes:      3,
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := EncodeVideoEvent("events", evt)
	require.NoError(t, err)
	assert.Equal(t, "events", msg.Topic)
	assert.Equal(t, "video-7", string(msg.Key))
	assert.JSONEq(t, `{"type":"video.liked","video_id":7,"filename":"cat.mp4","likes":3,"occurred_at":"2024-05-01T12:00:00Z"}`, string(msg.Value))

	decoded, err := DecodeVideoEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, evt, decoded)
}

func TestDecodeVideoEvent_Invalid(t *testing.T) {
	_, err := DecodeVideoEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, topic: "events"}

	video := &model.Video{ID: 1, Filename: "a.mp4"}
	require.NoError(t, p.Publish(context.Background(), model.NewVideoEvent(model.VideoEventUploaded, video)))
	require.Len(t, w.messages, 1)
	assert.Equal(t, "video-1", string(w.messages[0].Key))

	w.err = errors.New("broker down")
	assert.Error(t, p.Publish(context.Background(), model.NewVideoEvent(model.VideoEventLiked, video)))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
