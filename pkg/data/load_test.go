package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/vctl/pkg/score"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSamplesFile_UnsupportedType(t *testing.T) {
	_, err := LoadSamplesFile("samples.xml")
	assert.Error(t, err)
}

func TestLoadSamplesFile_Missing(t *testing.T) {
	_, err := LoadSamplesFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadSamplesJSON(t *testing.T) {
	path := writeTempFile(t, "samples.json", `[
		{
			"post_id": "post-1",
			"features": {"hook": 0.8, "media": "video", "followers": 5000},
			"actual_impressions": 12000,
			"actual_likes": 340,
			"actual_quotes": 12
		},
		{
			"post_id": "post-2",
			"actual_impressions": 800,
			"actual_likes": 9
		}
	]`)

	samples, err := LoadSamplesFile(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "post-1", samples[0].PostID)
	assert.Equal(t, 0.8, samples[0].Features.Hook)
	assert.Equal(t, score.MediaVideo, samples[0].Features.Media)
	assert.Equal(t, int64(5000), samples[0].Features.Followers)
	require.NotNil(t, samples[0].ActualQuotes)
	assert.Equal(t, int64(12), *samples[0].ActualQuotes)

	// unspecified features fall back to the neutral defaults
	assert.Equal(t, score.DefaultFeatures(), samples[1].Features)
	assert.Nil(t, samples[1].ActualQuotes)
}

func TestLoadSamplesJSON_Malformed(t *testing.T) {
	path := writeTempFile(t, "bad.json", `{"not": "a list"}`)
	_, err := LoadSamplesFile(path)
	assert.Error(t, err)
}

func TestLoadSamplesCSV(t *testing.T) {
	path := writeTempFile(t, "samples.csv",
		"post_id,impressions,likes,replies,reposts,quotes,hook,media,followers,verified\n"+
			"post-1,12000,340,55,21,12,0.8,video,5000,true\n"+
			"post-2,800,9,,,,,,,\n")

	samples, err := LoadSamplesFile(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, "post-1", samples[0].PostID)
	assert.Equal(t, int64(12000), samples[0].ActualImpressions)
	assert.Equal(t, int64(340), samples[0].ActualLikes)
	require.NotNil(t, samples[0].ActualQuotes)
	assert.Equal(t, int64(12), *samples[0].ActualQuotes)
	assert.Equal(t, 0.8, samples[0].Features.Hook)
	assert.Equal(t, score.MediaVideo, samples[0].Features.Media)
	assert.True(t, samples[0].Features.Verified)

	// blank cells leave the defaults in place
	assert.Equal(t, score.DefaultFeatures().Hook, samples[1].Features.Hook)
	assert.Nil(t, samples[1].ActualQuotes)
}

func TestLoadSamplesCSV_MissingPostID(t *testing.T) {
	path := writeTempFile(t, "samples.csv", "impressions,likes\n100,5\n")
	_, err := LoadSamplesFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post_id")
}

func TestLoadSamplesCSV_BadNumber(t *testing.T) {
	path := writeTempFile(t, "samples.csv", "post_id,impressions\npost-1,lots\n")
	_, err := LoadSamplesFile(path)
	assert.Error(t, err)
}
