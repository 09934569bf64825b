package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

func TestEventTypeFor(t *testing.T) {
	assert.Equal(t, AssetSynced, EventTypeFor(notice.KindSuccess))
	assert.Equal(t, AssetFailed, EventTypeFor(notice.KindError))
	assert.Equal(t, AssetSkipped, EventTypeFor(notice.KindInfo))
}

func TestDecodeAssetEvent(t *testing.T) {
	n := notice.New(notice.KindError, "resume", "portfolio-cv", "cv.pdf", "Cloud upload failed.")
	raw, err := json.Marshal(AssetEventPayload{EventType: AssetFailed, Notice: n})
	require.NoError(t, err)

	got, err := DecodeAssetEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, AssetFailed, got.EventType)
	assert.Equal(t, n.ID, got.Notice.ID)
	assert.Equal(t, "cv.pdf", got.Notice.Path)

	_, err = DecodeAssetEvent([]byte("{"))
	assert.Error(t, err)
}

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNopLogger())
	assert.Error(t, err)
}
