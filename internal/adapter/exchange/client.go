// Package exchange implements the swap-quote collaborator over HTTP.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wager-treasury/config"
	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
)

const nativeTokenSymbol = "NATIVE"

// retryIntervals bounds how often a failed quote is retried.
var retryIntervals = []time.Duration{
	250 * time.Millisecond,
	time.Second,
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.ExchangeClient.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient HTTPClient
	retries    []time.Duration
	log        zerolog.Logger
}

// NewClient creates an exchange client.
func NewClient(cfg config.ExchangeConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		retries:    retryIntervals,
		log:        log.With().Str("component", "exchange").Logger(),
	}
}

type quoteResponse struct {
	QuoteID      string     `json:"quote_id"`
	SellAmount   string     `json:"sell_amount"`
	BuyAmount    string     `json:"buy_amount"`
	MinBuyAmount string     `json:"min_buy_amount"`
	Executable   bool       `json:"executable"`
	To           string     `json:"to"`
	Data         string     `json:"data"`
	Value        string     `json:"value"`
	Gas          string     `json:"gas"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// errRetryable marks failures worth another attempt.
var errRetryable = errors.New("retryable")

// Quote asks the exchange to price req. Transport errors and 5xx responses
// are retried a bounded number of times; each attempt has its own timeout.
func (c *Client) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.SwapQuote, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return nil, apperror.Validation("quote amount must be positive")
	}

	q := url.Values{}
	sell := req.SellToken
	if sell == "" {
		sell = nativeTokenSymbol
	}
	q.Set("sell_token", sell)
	q.Set("buy_token", req.BuyToken)
	q.Set("sell_amount", req.AmountIn.String())
	q.Set("taker", req.Taker)
	q.Set("slippage_bps", strconv.Itoa(req.SlippageBps))
	endpoint := c.baseURL + "/v1/quote?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt <= len(c.retries); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperror.ErrExternalTimeout("exchange", ctx.Err())
			case <-time.After(c.retries[attempt-1]):
			}
		}

		quote, err := c.fetch(ctx, endpoint)
		if err == nil {
			return quote, nil
		}
		lastErr = err
		if !errors.Is(err, errRetryable) {
			break
		}
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("exchange: quote failed, retrying")
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, apperror.ErrExternalTimeout("exchange", lastErr)
	}
	return nil, apperror.ErrExternal("exchange", lastErr)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*domain.SwapQuote, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errRetryable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read quote: %w", errRetryable, err)
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: status %d", errRetryable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return qr.toDomain()
}

func (qr quoteResponse) toDomain() (*domain.SwapQuote, error) {
	in, err := parseAmount("sell_amount", qr.SellAmount)
	if err != nil {
		return nil, err
	}
	out, err := parseAmount("buy_amount", qr.BuyAmount)
	if err != nil {
		return nil, err
	}
	minOut := out
	if qr.MinBuyAmount != "" {
		if minOut, err = parseAmount("min_buy_amount", qr.MinBuyAmount); err != nil {
			return nil, err
		}
	}
	// A missing value stays nil; the caller sends the amount it asked to sell.
	var value *big.Int
	if qr.Value != "" {
		if value, err = parseAmount("value", qr.Value); err != nil {
			return nil, err
		}
	}
	var data []byte
	if qr.Data != "" {
		if data, err = hexutil.Decode(qr.Data); err != nil {
			return nil, fmt.Errorf("decode quote calldata: %w", err)
		}
	}
	var gas uint64
	if qr.Gas != "" {
		if gas, err = strconv.ParseUint(qr.Gas, 10, 64); err != nil {
			return nil, fmt.Errorf("decode quote gas: %w", err)
		}
	}

	return &domain.SwapQuote{
		QuoteID:      qr.QuoteID,
		AmountIn:     in,
		AmountOut:    out,
		MinAmountOut: minOut,
		Executable:   qr.Executable,
		To:           qr.To,
		Data:         data,
		Value:        value,
		GasLimit:     gas,
		ExpiresAt:    qr.ExpiresAt,
	}, nil
}

func parseAmount(field, s string) (*big.Int, error) {
	v, err := domain.ParseRaw(s)
	if err != nil {
		return nil, fmt.Errorf("decode quote %s: %w", field, err)
	}
	return v, nil
}
