package feed

import (
	"context"
	"fmt"

	"github.com/greven/forex/internal/rates"
	"github.com/greven/forex/internal/xerrors"
)

// HTTPClient retrieves the raw XML body for a feed Kind. The production
// default (httpClient, in http_client.go) issues a GET against BaseURL+
// Kind.Path(); tests substitute a fake to inject fixtures or failures
// (spec.md section 4.4: "feed_fn_override... enables tests to inject
// error or fixture producers").
type HTTPClient interface {
	Do(ctx context.Context, k Kind) ([]byte, error)
}

// Parser turns a feed's raw XML body into an ordered, non-empty Payload
// (spec.md section 3: "Feed payload. A non-empty ordered sequence of
// daily rate sets, most-recent first").
type Parser interface {
	Parse(k Kind, body []byte) (rates.Payload, error)
}

// Error wraps a feed-stage failure (HTTP or parse) with the Kind that
// failed, satisfying the feed-error taxonomy bucket (spec.md section 7).
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("forex: feed error fetching %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return xerrors.Feed }

// Orchestrator implements spec.md section 4.2's fetch contract: call the
// HTTP adapter, then the parser, and normalize any failure from either
// stage into a *Error. It performs no retry — partial-failure policy
// belongs to the fetcher (spec.md section 4.2, last line).
type Orchestrator struct {
	client HTTPClient
	parser Parser
}

// NewOrchestrator builds an Orchestrator from an HTTP adapter and a
// parser adapter.
func NewOrchestrator(client HTTPClient, parser Parser) *Orchestrator {
	return &Orchestrator{client: client, parser: parser}
}

// Fetch retrieves and parses the named feed.
func (o *Orchestrator) Fetch(ctx context.Context, k Kind) (rates.Payload, error) {
	body, err := o.client.Do(ctx, k)
	if err != nil {
		return nil, &Error{Kind: k, Cause: err}
	}

	payload, err := o.parser.Parse(k, body)
	if err != nil {
		return nil, &Error{Kind: k, Cause: err}
	}

	if len(payload) == 0 {
		return nil, &Error{Kind: k, Cause: fmt.Errorf("empty feed payload")}
	}

	return payload, nil
}
