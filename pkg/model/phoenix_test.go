package model

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/vctl/pkg/score"
)

func rankHandler(t *testing.T, probs score.ActionProbs) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rank", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req rankingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Candidates, 1)

		resp := rankingResponse{
			Scores: []candidateScore{
				{PostID: req.Candidates[0].PostID, PhoenixScores: probs, Rank: 0},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestNewPhoenix_RequiresEndpoint(t *testing.T) {
	_, err := NewPhoenix("", time.Second)
	assert.ErrorIs(t, err, score.ErrInvalidConfig)
}

func TestPhoenixPredict(t *testing.T) {
	want := score.ActionProbs{Like: 0.42, Reply: 0.08, DwellTime: 12.5}
	srv := httptest.NewServer(rankHandler(t, want))
	defer srv.Close()

	p, err := NewPhoenix(srv.URL, time.Second)
	require.NoError(t, err)

	pred, err := p.Predict(context.Background(), score.DefaultFeatures(), nil)
	require.NoError(t, err)
	assert.Equal(t, want, pred.Probs)
	assert.Equal(t, SourcePhoenix, pred.Source)
	// signals come from the local derivation, not the backend
	assert.Greater(t, pred.Signals.PositiveSignal, 0.0)
}

func TestPhoenixPredict_SendsHistory(t *testing.T) {
	var got rankingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		resp := rankingResponse{Scores: []candidateScore{{PhoenixScores: score.ActionProbs{Like: 0.5}}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	p, err := NewPhoenix(srv.URL, time.Second, WithHistoryLimit(2))
	require.NoError(t, err)

	h := &score.History{
		UserID: "u1",
		Posts: []score.HistoryPost{
			{PostID: "h1", AuthorID: "a"},
			{PostID: "h2", AuthorID: "b"},
			{PostID: "h3", AuthorID: "c"},
		},
	}
	_, err = p.Predict(context.Background(), score.DefaultFeatures(), h)
	require.NoError(t, err)

	assert.Equal(t, "u1", got.UserID)
	// history is truncated to the configured limit
	require.Len(t, got.HistoryPosts, 2)
	assert.Equal(t, "h1", got.HistoryPosts[0].PostID)
}

func TestPhoenixPredict_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewPhoenix(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), score.DefaultFeatures(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestPhoenixPredict_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p, err := NewPhoenix(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), score.DefaultFeatures(), nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestPhoenixPredict_EmptyScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(rankingResponse{}))
	}))
	defer srv.Close()

	p, err := NewPhoenix(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), score.DefaultFeatures(), nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestPhoenixPredict_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing listening anymore

	p, err := NewPhoenix(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), score.DefaultFeatures(), nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestPhoenixPredict_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels the request context; otherwise srv.Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	p, err := NewPhoenix(srv.URL, time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = p.Predict(ctx, score.DefaultFeatures(), nil)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestStableHash64(t *testing.T) {
	assert.Equal(t, stableHash64("abc"), stableHash64("abc"))
	assert.NotEqual(t, stableHash64("abc"), stableHash64("abd"))
}
