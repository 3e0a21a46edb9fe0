package web3

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestClient_EnvelopeSuccess verifies a status-1 envelope decodes the result
func TestClient_EnvelopeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("findUserPoints should POST, got %s", r.Method)
		}
		w.Write([]byte(`{"status": 1, "code": 0, "error": "", "result": {"chainId": 1329, "userAddress": "0xabc", "userPoints": 42, "basePoints": 40, "gamePoints": 2}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "1329", time.Second)
	points, err := c.FindUserPoints(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("FindUserPoints failed: %v", err)
	}
	if points.UserPoints != 42 {
		t.Errorf("unexpected points: %v", points.UserPoints)
	}
}

// TestClient_EnvelopeRejection verifies a non-1 status becomes a BizError
func TestClient_EnvelopeRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "code": 404, "error": "address unknown", "result": null}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "1329", time.Second)
	_, err := c.FindUserPoints(context.Background(), "0xmissing")

	var bizErr *BizError
	if !errors.As(err, &bizErr) {
		t.Fatalf("expected BizError, got %v", err)
	}
	if bizErr.Message != "address unknown" {
		t.Errorf("expected backend error text, got %q", bizErr.Message)
	}
	if errors.Is(err, ErrBackendUnavailable) {
		t.Error("a rejection is not a transport failure")
	}
}

// TestClient_TransportFailure verifies unreachable backends map to the sentinel
func TestClient_TransportFailure(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", "1329", 100*time.Millisecond)

	_, err := c.FindUserPoints(context.Background(), "0xabc")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

// TestClient_UndecodableBody verifies garbage responses map to the sentinel
func TestClient_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "1329", time.Second)
	_, err := c.FindUserProof(context.Background(), "0xabc")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

// TestClient_FindSwapTokensBody verifies the swap request carries the fixed dex type
func TestClient_FindSwapTokensBody(t *testing.T) {
	var params map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &params)
		w.Write([]byte(`{"status": 1, "code": 0, "error": "", "result": {"pairAddress": "0xPair", "routerTokens": []}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "1329", time.Second)
	pair, err := c.FindSwapTokens(context.Background(), "VIRTUAL", "lzSEILOR", "10")
	if err != nil {
		t.Fatalf("FindSwapTokens failed: %v", err)
	}

	if params["swapDexType"] != "uniswap_v2" {
		t.Errorf("expected uniswap_v2, got %v", params["swapDexType"])
	}
	if params["fromTokenSymbol"] != "VIRTUAL" || params["toTokenSymbol"] != "lzSEILOR" {
		t.Errorf("unexpected symbols in body: %v", params)
	}
	if pair.PairAddress != "0xPair" {
		t.Errorf("unexpected pair address: %q", pair.PairAddress)
	}
}

// TestClient_QueryScore verifies the score service GET and result decoding
func TestClient_QueryScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("queryAddress") != "0xabc" {
			t.Errorf("missing queryAddress parameter: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status": 1, "code": 0, "error": "", "result": {"userScore": 88, "airdropAmount": 5, "airdropAmountRaw": "5000000000000000000"}}`))
	}))
	defer server.Close()

	c := NewClient("", server.URL, "1329", time.Second)
	score, err := c.QueryScore(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("QueryScore failed: %v", err)
	}
	if score.UserScore != 88 || score.AirdropAmount != 5 {
		t.Errorf("unexpected score result: %+v", score)
	}
}

// TestClient_Configured verifies the settings checks
func TestClient_Configured(t *testing.T) {
	if !NewClient("http://b", "http://s", "1329", 0).Configured() {
		t.Error("expected configured backend")
	}
	if NewClient("", "http://s", "1329", 0).Configured() {
		t.Error("missing base url should not be configured")
	}
	if NewClient("http://b", "", "", 0).Configured() {
		t.Error("missing chain id should not be configured")
	}
	if NewClient("http://b", "", "1329", 0).ScoreConfigured() {
		t.Error("missing score url should not be score-configured")
	}
}
