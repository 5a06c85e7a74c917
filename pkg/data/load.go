package data

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mchmarny/vctl/pkg/calibrate"
	"github.com/mchmarny/vctl/pkg/score"
)

// LoadSamplesFile reads calibration samples from a .json or .csv file.
// Feature fields absent from the file fall back to the neutral defaults.
func LoadSamplesFile(path string) ([]calibrate.Sample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadSamplesJSON(path)
	case ".csv":
		return loadSamplesCSV(path)
	default:
		return nil, errors.Errorf("unsupported sample file type: %s", path)
	}
}

func loadSamplesJSON(path string) ([]calibrate.Sample, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading sample file: %s", path)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrapf(err, "error parsing sample file: %s", path)
	}

	list := make([]calibrate.Sample, 0, len(raw))
	for i, item := range raw {
		sample := calibrate.Sample{Features: score.DefaultFeatures()}
		if err := json.Unmarshal(item, &sample); err != nil {
			return nil, errors.Wrapf(err, "error parsing sample %d in %s", i, path)
		}
		list = append(list, sample)
	}
	return list, nil
}

func loadSamplesCSV(path string) ([]calibrate.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening sample file: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading csv header: %s", path)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["post_id"]; !ok {
		return nil, errors.Errorf("csv file %s missing required post_id column", path)
	}

	list := make([]calibrate.Sample, 0)
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading csv line %d in %s", line, path)
		}

		sample, err := sampleFromRecord(cols, record)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing csv line %d in %s", line, path)
		}
		list = append(list, *sample)
	}
	return list, nil
}

func sampleFromRecord(cols map[string]int, record []string) (*calibrate.Sample, error) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}

	sample := &calibrate.Sample{Features: score.DefaultFeatures()}

	var parseErr error
	setInt := func(name string, dst *int64) {
		if v, ok := get(name); ok && parseErr == nil {
			var n int64
			if n, parseErr = strconv.ParseInt(v, 10, 64); parseErr == nil {
				*dst = n
			}
		}
	}
	setFloat := func(name string, dst *float64) {
		if v, ok := get(name); ok && parseErr == nil {
			var f float64
			if f, parseErr = strconv.ParseFloat(v, 64); parseErr == nil {
				*dst = f
			}
		}
	}

	id, _ := get("post_id")
	sample.PostID = id

	setInt("impressions", &sample.ActualImpressions)
	setInt("likes", &sample.ActualLikes)
	setInt("replies", &sample.ActualReplies)
	setInt("reposts", &sample.ActualReposts)

	if v, ok := get("quotes"); ok && parseErr == nil {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			sample.ActualQuotes = &n
		} else {
			parseErr = err
		}
	}
	if v, ok := get("shares"); ok && parseErr == nil {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			sample.ActualShares = &n
		} else {
			parseErr = err
		}
	}

	f := &sample.Features
	setFloat("hook", &f.Hook)
	setFloat("clarity", &f.Clarity)
	setFloat("novelty", &f.Novelty)
	setFloat("timeliness", &f.Timeliness)
	setFloat("controversy", &f.Controversy)
	setFloat("sentiment", &f.Sentiment)
	setFloat("spamminess", &f.Spamminess)
	setFloat("avg_engagement_rate", &f.AvgEngagementRate)
	setFloat("posts_per_day", &f.PostsPerDay)
	setFloat("topic_saturation", &f.TopicSaturation)
	setFloat("audience_fit", &f.AudienceFit)

	setInt("followers", &f.Followers)
	setInt("following", &f.Following)

	if v, ok := get("account_age_days"); ok && parseErr == nil {
		var n int
		if n, parseErr = strconv.Atoi(v); parseErr == nil {
			f.AccountAgeDays = n
		}
	}
	if v, ok := get("hour_of_day"); ok && parseErr == nil {
		var n int
		if n, parseErr = strconv.Atoi(v); parseErr == nil {
			f.HourOfDay = n
		}
	}
	if v, ok := get("text_length"); ok && parseErr == nil {
		var n int
		if n, parseErr = strconv.Atoi(v); parseErr == nil {
			f.TextLength = n
		}
	}
	if v, ok := get("verified"); ok && parseErr == nil {
		var b bool
		if b, parseErr = strconv.ParseBool(v); parseErr == nil {
			f.Verified = b
		}
	}
	if v, ok := get("media"); ok {
		if media, valid := score.ParseMediaType(v); valid {
			f.Media = media
		}
	}
	if v, ok := get("video_duration_seconds"); ok && parseErr == nil {
		var d float64
		if d, parseErr = strconv.ParseFloat(v, 64); parseErr == nil && d >= 0 {
			f.VideoDuration = &d
		}
	}

	if parseErr != nil {
		return nil, parseErr
	}
	return sample, nil
}
