package model

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mchmarny/vctl/pkg/net"
	"github.com/mchmarny/vctl/pkg/score"
)

const (
	// SourcePhoenix labels predictions produced by the remote backend.
	SourcePhoenix = "phoenix"

	rankPath = "/rank"

	// PhoenixTimeoutDefault bounds every backend call.
	PhoenixTimeoutDefault = 5 * time.Second

	// PhoenixHistoryLimitDefault caps the history context sent per request.
	PhoenixHistoryLimitDefault = 50
)

// ErrBackendUnavailable covers every remote-model failure mode: timeout,
// connection error, non-2xx status, and malformed payload. In hybrid mode it
// is recovered by falling back to the heuristic model; in phoenix-only mode
// it is fatal for the request.
var ErrBackendUnavailable = errors.New("ranking backend unavailable")

// Phoenix delegates probability prediction to the external ranking service.
// Calls carry a bounded timeout and honor the request context, so an
// abandoned scoring request abandons the in-flight backend call too.
type Phoenix struct {
	endpoint     string
	client       *http.Client
	historyLimit int
}

// PhoenixOption tweaks client construction.
type PhoenixOption func(*Phoenix)

// WithHTTPClient swaps the transport, e.g. for a token-authenticated client.
func WithHTTPClient(c *http.Client) PhoenixOption {
	return func(p *Phoenix) {
		if c != nil {
			p.client = c
		}
	}
}

// WithHistoryLimit caps the number of history posts sent per request.
func WithHistoryLimit(n int) PhoenixOption {
	return func(p *Phoenix) {
		if n >= 0 {
			p.historyLimit = n
		}
	}
}

func NewPhoenix(endpoint string, timeout time.Duration, opts ...PhoenixOption) (*Phoenix, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: phoenix endpoint is required", score.ErrInvalidConfig)
	}
	if timeout <= 0 {
		timeout = PhoenixTimeoutDefault
	}

	p := &Phoenix{
		endpoint:     strings.TrimSuffix(endpoint, "/"),
		client:       net.NewHTTPClient(timeout),
		historyLimit: PhoenixHistoryLimitDefault,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type postFeatures struct {
	PostID               string   `json:"post_id"`
	AuthorID             string   `json:"author_id"`
	TextHash             uint64   `json:"text_hash"`
	AuthorHash           uint64   `json:"author_hash"`
	ProductSurface       int      `json:"product_surface"`
	VideoDurationSeconds *float64 `json:"video_duration_seconds,omitempty"`
}

type rankingRequest struct {
	UserID         string         `json:"user_id"`
	UserEmbedding  []float32      `json:"user_embedding,omitempty"`
	HistoryPosts   []postFeatures `json:"history_posts"`
	HistoryActions [][]float32    `json:"history_actions"`
	Candidates     []postFeatures `json:"candidates"`
}

type candidateScore struct {
	PostID        string            `json:"post_id"`
	PhoenixScores score.ActionProbs `json:"phoenix_scores"`
	WeightedScore float64           `json:"weighted_score"`
	Rank          int               `json:"rank"`
}

type rankingResponse struct {
	Scores []candidateScore `json:"scores"`
}

func (p *Phoenix) Predict(ctx context.Context, f score.Features, h *score.History) (*score.Prediction, error) {
	body, err := json.Marshal(p.buildRequest(f, h))
	if err != nil {
		return nil, fmt.Errorf("encoding ranking request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+rankPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ranking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		net.DumpResponse(resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s - %s", ErrBackendUnavailable, resp.Status, strings.TrimSpace(string(b)))
	}

	var rr rankingResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrBackendUnavailable, err)
	}
	if len(rr.Scores) == 0 {
		return nil, fmt.Errorf("%w: empty score set", ErrBackendUnavailable)
	}

	return &score.Prediction{
		Probs: rr.Scores[0].PhoenixScores,
		// Derived signals stay local; the backend only supplies probabilities.
		Signals: deriveSignals(f),
		Source:  SourcePhoenix,
	}, nil
}

func (p *Phoenix) buildRequest(f score.Features, h *score.History) rankingRequest {
	req := rankingRequest{
		UserID:         "anonymous",
		HistoryPosts:   []postFeatures{},
		HistoryActions: [][]float32{},
		Candidates: []postFeatures{
			{
				PostID:               fmt.Sprintf("post_%x", featureHash(f)),
				AuthorID:             fmt.Sprintf("author_%x", authorHash(f)),
				TextHash:             featureHash(f),
				AuthorHash:           authorHash(f),
				VideoDurationSeconds: f.VideoDuration,
			},
		},
	}

	if h == nil {
		return req
	}

	if h.UserID != "" {
		req.UserID = h.UserID
	}
	req.UserEmbedding = h.Embedding

	posts := h.Posts
	if p.historyLimit > 0 && len(posts) > p.historyLimit {
		posts = posts[:p.historyLimit]
	}
	for _, hp := range posts {
		req.HistoryPosts = append(req.HistoryPosts, postFeatures{
			PostID:               hp.PostID,
			AuthorID:             hp.AuthorID,
			TextHash:             stableHash64(hp.PostID),
			AuthorHash:           stableHash64(hp.AuthorID),
			VideoDurationSeconds: hp.VideoDuration,
		})
	}
	return req
}

// featureHash gives the candidate a stable identity derived from its content
// features, so probability results remain cacheable by candidate alone.
func featureHash(f score.Features) uint64 {
	return stableHash64(fmt.Sprintf("%d:%s:%f:%f:%f:%f",
		f.TextLength, f.Media, f.Hook, f.Clarity, f.Novelty, f.Controversy))
}

func authorHash(f score.Features) uint64 {
	return stableHash64(fmt.Sprintf("%d:%d:%d:%t",
		f.Followers, f.Following, f.AccountAgeDays, f.Verified))
}

func stableHash64(v string) uint64 {
	sum := sha256.Sum256([]byte(v))
	return binary.BigEndian.Uint64(sum[:8])
}
