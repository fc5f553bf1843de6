// Package randomness draws settlement randomness from a public beacon.
package randomness

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wager-treasury/config"
	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when no beacon URL is set.
var ErrNotConfigured = errors.New("randomness beacon not configured")

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Beacon implements ports.RandomnessSource against a drand-style HTTP
// endpoint serving {round, randomness, signature}.
type Beacon struct {
	url        string
	timeout    time.Duration
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewBeacon creates a beacon client.
func NewBeacon(cfg config.RandomnessConfig, httpClient HTTPClient, log zerolog.Logger) *Beacon {
	return &Beacon{
		url:        strings.TrimRight(cfg.URL, "/"),
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		log:        log.With().Str("component", "randomness").Logger(),
	}
}

type beaconResponse struct {
	Round      uint64 `json:"round"`
	Randomness string `json:"randomness"`
	Signature  string `json:"signature"`
}

// Draw fetches the latest beacon round and binds it to requestID.
func (b *Beacon) Draw(ctx context.Context, requestID string) (*domain.Randomness, error) {
	if b.url == "" {
		return nil, apperror.ErrExternal("randomness", ErrNotConfigured)
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url+"/public/latest", nil)
	if err != nil {
		return nil, apperror.ErrExternal("randomness", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.ErrExternalTimeout("randomness", err)
		}
		return nil, apperror.ErrExternal("randomness", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ErrExternal("randomness", fmt.Errorf("status %d", resp.StatusCode))
	}

	var br beaconResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&br); err != nil {
		return nil, apperror.ErrExternal("randomness", fmt.Errorf("decode beacon: %w", err))
	}
	value, err := hex.DecodeString(br.Randomness)
	if err != nil || len(value) == 0 {
		return nil, apperror.ErrExternal("randomness", fmt.Errorf("beacon randomness is not hex: %q", br.Randomness))
	}
	if err := checkRound(br, value); err != nil {
		b.log.Warn().Err(err).Uint64("round", br.Round).Msg("beacon round rejected")
		return nil, apperror.ErrExternal("randomness", err)
	}

	b.log.Debug().Uint64("round", br.Round).Str("request_id", requestID).Msg("Beacon round drawn")

	return &domain.Randomness{
		Value: value,
		Proof: domain.RandomnessProof{
			Version:    domain.RandomnessProofVersion,
			Source:     domain.RandomnessSourceBeacon,
			Round:      br.Round,
			Randomness: br.Randomness,
			Signature:  br.Signature,
			RequestID:  requestID,
		},
	}, nil
}

// checkRound binds the randomness to the round signature: drand publishes
// randomness = sha256(signature). The BLS signature itself is not checked
// against the chain public key here; the proof carries it for auditors.
func checkRound(br beaconResponse, value []byte) error {
	sig, err := hex.DecodeString(br.Signature)
	if err != nil || len(sig) == 0 {
		return fmt.Errorf("beacon signature is not hex: %q", br.Signature)
	}
	digest := sha256.Sum256(sig)
	if !bytes.Equal(digest[:], value) {
		return fmt.Errorf("beacon randomness does not match signature for round %d", br.Round)
	}
	return nil
}
