// Package web3 wraps the backend REST capabilities the agent exposes to
// users: faith points, loot-box proofs, token lookup, swap-pair discovery and
// the score service.
//
// The backend wraps every payload in a business envelope; status 1 means
// success and anything else carries a backend-authored error string. The
// client decodes the envelope and hands the caller either the typed result or
// the backend's error text.
package web3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrBackendUnavailable reports a transport-level failure: the backend could
// not be reached or returned an undecodable response.
var ErrBackendUnavailable = errors.New("web3 backend unavailable")

// Envelope is the backend's business-status wrapper.
type Envelope struct {
	Status int             `json:"status"`
	Code   int             `json:"code"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

// BizError carries the backend's own error text for a status != 1 envelope.
type BizError struct {
	Code    int
	Message string
}

func (e *BizError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend rejected request (code %d)", e.Code)
	}
	return e.Message
}

// UserPoints is the findUserPoints result.
type UserPoints struct {
	ChainID     int     `json:"chainId"`
	UserAddress string  `json:"userAddress"`
	UserPoints  float64 `json:"userPoints"`
	BasePoints  float64 `json:"basePoints"`
	GamePoints  float64 `json:"gamePoints"`
}

// UserProof is the findUserProof result used to open a loot box.
type UserProof struct {
	UserAddress string `json:"userAddress"`
	LeafKey     string `json:"leafKey"`
	LeafProof   string `json:"leafProof"`
}

// SampleToken describes a token known to the backend.
type SampleToken struct {
	ChainID      int    `json:"chainId"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Decimals     int    `json:"decimals"`
	IsNativeCoin bool   `json:"isNativeCoin,omitempty"`
}

// SwapPair is the findSwapTokens result.
type SwapPair struct {
	PairAddress  string        `json:"pairAddress"`
	RouterTokens []SampleToken `json:"routerTokens"`
}

// ScoreResult is the score service's queryScore result.
type ScoreResult struct {
	UserScore        float64 `json:"userScore"`
	AirdropAmount    float64 `json:"airdropAmount"`
	AirdropAmountRaw string  `json:"airdropAmountRaw"`
}

type swapTokensParams struct {
	ChainID         string `json:"chainId"`
	SwapDexType     string `json:"swapDexType"`
	FromTokenSymbol string `json:"fromTokenSymbol"`
	ToTokenSymbol   string `json:"toTokenSymbol"`
	Amount          string `json:"amount"`
}

// Client talks to the agent backend and the score service. The chain id is
// carried as configured; the backend parses it.
type Client struct {
	baseURL      string
	scoreBaseURL string
	chainID      string
	http         *http.Client
}

func NewClient(baseURL, scoreBaseURL, chainID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		scoreBaseURL: strings.TrimRight(scoreBaseURL, "/"),
		chainID:      chainID,
		http:         &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the agent backend endpoints can be used.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.chainID != ""
}

// ScoreConfigured reports whether the score service endpoint can be used.
func (c *Client) ScoreConfigured() bool {
	return c.scoreBaseURL != ""
}

// ChainID returns the configured chain.
func (c *Client) ChainID() string {
	return c.chainID
}

// FindUserPoints looks up the faith points balance for an address.
func (c *Client) FindUserPoints(ctx context.Context, userAddress string) (*UserPoints, error) {
	endpoint := fmt.Sprintf("%s/api/agent/findUserPoints/%s/%s", c.baseURL, c.chainID, userAddress)
	var points UserPoints
	if err := c.call(ctx, http.MethodPost, endpoint, nil, &points); err != nil {
		return nil, err
	}
	return &points, nil
}

// FindUserProof fetches the merkle proof that lets an address open its loot
// box.
func (c *Client) FindUserProof(ctx context.Context, userAddress string) (*UserProof, error) {
	endpoint := fmt.Sprintf("%s/api/agent/findUserProof/%s", c.baseURL, userAddress)
	var proof UserProof
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

// FindTokenBySymbol resolves a token symbol on the configured chain. The
// symbol is passed as-is; strip any display prefix before calling.
func (c *Client) FindTokenBySymbol(ctx context.Context, symbol string) (*SampleToken, error) {
	endpoint := fmt.Sprintf("%s/api/agent/findTokenBySymbol/%s/%s", c.baseURL, c.chainID, url.PathEscape(symbol))
	var token SampleToken
	if err := c.call(ctx, http.MethodPost, endpoint, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// FindSwapTokens resolves the uniswap-v2 pair for a symbol-to-symbol swap.
func (c *Client) FindSwapTokens(ctx context.Context, fromSymbol, toSymbol, amount string) (*SwapPair, error) {
	endpoint := c.baseURL + "/api/agent/findSwapTokens"
	params := swapTokensParams{
		ChainID:         c.chainID,
		SwapDexType:     "uniswap_v2",
		FromTokenSymbol: fromSymbol,
		ToTokenSymbol:   toSymbol,
		Amount:          amount,
	}
	var pair SwapPair
	if err := c.call(ctx, http.MethodPost, endpoint, params, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// QueryScore asks the score service for an address's score and pending
// airdrop.
func (c *Client) QueryScore(ctx context.Context, queryAddress string) (*ScoreResult, error) {
	endpoint := fmt.Sprintf("%s/telegram/queryScore?queryAddress=%s",
		c.scoreBaseURL, url.QueryEscape(queryAddress))
	var score ScoreResult
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", ErrBackendUnavailable, err)
	}

	if envelope.Status != 1 {
		return &BizError{Code: envelope.Code, Message: envelope.Error}
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("%w: decode result: %v", ErrBackendUnavailable, err)
		}
	}
	return nil
}
