package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OutcomeKind tags what the idempotency store knows about a token.
type OutcomeKind int

const (
	// OutcomeUnseen: no record exists; the caller now holds the
	// processing marker and must do the work.
	OutcomeUnseen OutcomeKind = iota
	// OutcomeProcessing: another request holds the marker; reject the
	// duplicate, do not execute side effects.
	OutcomeProcessing
	// OutcomeCompleted: a final response is stored; replay it verbatim.
	OutcomeCompleted
)

// Outcome is decoded once at the cache boundary; StatusCode and Body are
// only set for OutcomeCompleted.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Body       json.RawMessage
}

type storedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// Idempotency deduplicates client-retried operations. For each token it
// keeps at most one short-lived processing marker and, once the operation
// finishes, a long-lived final response that supersedes the marker.
type Idempotency struct {
	client        *redis.Client
	processingTTL time.Duration
	responseTTL   time.Duration
}

func NewIdempotency(client *redis.Client, processingTTL, responseTTL time.Duration) *Idempotency {
	return &Idempotency{client: client, processingTTL: processingTTL, responseTTL: responseTTL}
}

// Begin gates an operation on token. It checks for a stored final response
// first, then attempts to take the processing marker; the stored response
// always supersedes the marker. On OutcomeUnseen the marker is held and
// the caller must finish with Store and/or ClearProcessing.
func (i *Idempotency) Begin(ctx context.Context, token string) (Outcome, error) {
	resp, err := i.lookup(ctx, token)
	if err != nil {
		return Outcome{}, err
	}
	if resp != nil {
		return Outcome{Kind: OutcomeCompleted, StatusCode: resp.StatusCode, Body: resp.Body}, nil
	}

	ok, err := i.markProcessing(ctx, token)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Kind: OutcomeProcessing}, nil
	}
	return Outcome{Kind: OutcomeUnseen}, nil
}

// Store persists the final response so later retries of the same token are
// answered from cache without recomputation.
func (i *Idempotency) Store(ctx context.Context, token string, statusCode int, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode idempotency body: %w", err)
	}
	payload, err := json.Marshal(storedResponse{StatusCode: statusCode, Body: raw})
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}
	if err := i.client.Set(ctx, responseKey(token), payload, i.responseTTL).Err(); err != nil {
		return fmt.Errorf("idempotency store: %w", err)
	}
	return nil
}

// ClearProcessing removes the marker so a released client can retry after
// a failure without waiting out the processing TTL. Called unconditionally
// at the end of the flow.
func (i *Idempotency) ClearProcessing(ctx context.Context, token string) error {
	if err := i.client.Del(ctx, processingKey(token)).Err(); err != nil {
		return fmt.Errorf("idempotency clear processing: %w", err)
	}
	return nil
}

func (i *Idempotency) lookup(ctx context.Context, token string) (*storedResponse, error) {
	data, err := i.client.Get(ctx, responseKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	var resp storedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &resp, nil
}

func (i *Idempotency) markProcessing(ctx context.Context, token string) (bool, error) {
	ok, err := i.client.SetNX(ctx, processingKey(token), "true", i.processingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency mark processing: %w", err)
	}
	return ok, nil
}

func responseKey(token string) string   { return "idempotency:" + token }
func processingKey(token string) string { return "idempotency:" + token + ":processing" }
