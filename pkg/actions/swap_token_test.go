package actions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seilorhq/faithagent/pkg/state"
	"github.com/seilorhq/faithagent/pkg/web3"
)

// TestSwapToken_Success verifies pair resolution yields the swap web action
func TestSwapToken_Success(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		w.Write([]byte(`{"status": 1, "code": 0, "error": "", "result": {"pairAddress": "0xPair", "routerTokens": [{"chainId": 1329, "symbol": "VIRTUAL", "name": "Virtual", "address": "0xToken", "decimals": 18}]}}`))
	}))
	defer server.Close()

	backend := web3.NewClient(server.URL, "", "1329", time.Second)
	client := &stubProvider{response: fenced(`{"amount": "10", "fromTokenSymbol": "$VIRTUAL", "toTokenSymbol": "$lzSEILOR"}`)}
	action := NewSwapTokenAction(backend, client)

	outcomes, err := action.Handle(context.Background(), testMessage("SWAP_TOKEN"), state.State{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if body["swapDexType"] != "uniswap_v2" {
		t.Errorf("expected uniswap_v2 dex type, got %v", body["swapDexType"])
	}
	if body["chainId"] != "1329" {
		t.Errorf("expected configured chain id in request, got %v", body["chainId"])
	}

	if len(outcomes) != 1 || !outcomes[0].Success {
		t.Fatalf("expected success, got %+v", outcomes)
	}
	wa := outcomes[0].WebAction
	if wa == nil || wa.Step != "swapTokenStep" {
		t.Errorf("expected swapTokenStep web action, got %+v", wa)
	}
}

// TestSwapToken_BizErrorNoWebAction verifies a rejected envelope produces a plain failure
func TestSwapToken_BizErrorNoWebAction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "code": 500, "error": "no pair on this chain", "result": null}`))
	}))
	defer server.Close()

	backend := web3.NewClient(server.URL, "", "1329", time.Second)
	client := &stubProvider{response: fenced(`{"amount": "10", "fromTokenSymbol": "$VIRTUAL", "toTokenSymbol": "$lzSEILOR"}`)}
	action := NewSwapTokenAction(backend, client)

	outcomes, err := action.Handle(context.Background(), testMessage("SWAP_TOKEN"), state.State{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected one outcome, got %d", len(outcomes))
	}
	o := outcomes[0]
	if o.Success || o.WebAction != nil {
		t.Errorf("rejected envelope must not yield a web action: %+v", o)
	}
	if o.Content == nil || o.Content.Error != "no pair on this chain" {
		t.Errorf("backend error text should surface: %+v", o.Content)
	}
}

// TestSwapToken_InvalidContentSkipsBackend verifies short symbols fail before any call
func TestSwapToken_InvalidContentSkipsBackend(t *testing.T) {
	backendHit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHit = true
	}))
	defer server.Close()

	backend := web3.NewClient(server.URL, "", "1329", time.Second)
	client := &stubProvider{response: fenced(`{"amount": "10", "fromTokenSymbol": "V", "toTokenSymbol": "$lzSEILOR"}`)}
	action := NewSwapTokenAction(backend, client)

	outcomes, err := action.Handle(context.Background(), testMessage("SWAP_TOKEN"), state.State{})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if backendHit {
		t.Error("backend must not be called for invalid content")
	}
	if len(outcomes) != 1 || outcomes[0].Success {
		t.Errorf("expected a failure outcome, got %+v", outcomes)
	}
}
