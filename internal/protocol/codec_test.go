package protocol

import (
	"testing"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope_Valid(t *testing.T) {
	t.Parallel()
	env, err := DecodeEnvelope([]byte(`{"event":"play","data":{"place":4}}`))
	require.NoError(t, err)
	assert.Equal(t, EventPlay, env.Event)

	var data PlayData
	require.NoError(t, DecodeData(env, &data))
	assert.Equal(t, 4, data.Place)
}

func TestDecodeEnvelope_NoData(t *testing.T) {
	t.Parallel()
	env, err := DecodeEnvelope([]byte(`{"event":"search"}`))
	require.NoError(t, err)
	assert.Equal(t, EventSearch, env.Event)
	assert.Empty(t, env.Data)
}

func TestDecodeEnvelope_InvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := DecodeEnvelope([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeEnvelope_MissingEventTag(t *testing.T) {
	t.Parallel()
	_, err := DecodeEnvelope([]byte(`{"data":{"place":1}}`))
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()
	winner := domain.PlayerId("p1")
	raw, err := Encode(EventRoundEnd, RoundEndData{Round: 1, Winner: &winner})
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, EventRoundEnd, env.Event)

	var data RoundEndData
	require.NoError(t, DecodeData(env, &data))
	assert.Equal(t, 1, data.Round)
	require.NotNil(t, data.Winner)
	assert.Equal(t, winner, *data.Winner)
}

func TestEncode_NilPayloadOmitsData(t *testing.T) {
	t.Parallel()
	raw, err := Encode(EventSearch, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"search"}`, string(raw))
}

func TestEncodeError(t *testing.T) {
	t.Parallel()
	raw := EncodeError(ErrNotYourTurn)
	assert.JSONEq(t, `{"event":"error","data":{"data":"not_your_turn"}}`, string(raw))
}
