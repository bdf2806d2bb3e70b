package playerv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_WireNames(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&PlayListRequest{
		Episodes: []*Episode{{Title: "ep", Members: "a, b", Duration: 61, URL: "u", Thumbnail: "t"}},
		Index:    0,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"episodes":[{"title":"ep","members":"a, b","thumbnail":"t","duration":61,"url":"u"}],"index":0}`, string(data))
}

func TestCodec_Unmarshal(t *testing.T) {
	c := Codec{}

	var req SetPlayingStateRequest
	require.NoError(t, c.Unmarshal([]byte(`{"playing":true}`), &req))
	assert.True(t, req.Playing)

	// Empty bodies decode to the zero message
	var empty GetStateRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))

	var bad FormatDurationRequest
	err := c.Unmarshal([]byte(`{"seconds":"ten"}`), &bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FormatDurationRequest")
}
