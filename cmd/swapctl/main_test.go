package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chainsafe/swap-coordinator/pkg/chain"
	"github.com/chainsafe/swap-coordinator/pkg/offer"
	"github.com/chainsafe/swap-coordinator/pkg/offer/service"
	"github.com/chainsafe/swap-coordinator/pkg/offerstore"
)

func newCoordinator(t *testing.T) string {
	t.Helper()

	reg := chain.NewRegistry()
	reg.Register(chain.TON, nil)
	reg.Register(chain.Stellar, nil)
	svc := service.NewService(offerstore.NewMemoryStore(), reg, nil, offer.DefaultParams(), zap.NewNop())

	r := chi.NewRouter()
	service.RegisterRoutes(r, svc, zap.NewNop())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

type result struct {
	code   int
	stdout string
	stderr string
}

func swapctl(t *testing.T, url string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-url", url}, args...), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func decodeSnapshot(t *testing.T, r result) *offer.Snapshot {
	t.Helper()
	require.Equal(t, exitOK, r.code, r.stderr)
	var snap offer.Snapshot
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &snap))
	return &snap
}

func TestSwapctl_Flow(t *testing.T) {
	url := newCoordinator(t)

	res := swapctl(t, url, "secret")
	require.Equal(t, exitOK, res.code, res.stderr)
	var pair struct {
		Preimage string `json:"preimage"`
		Hash     string `json:"hash"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &pair))
	require.Len(t, pair.Preimage, 64)
	require.Len(t, pair.Hash, 64)

	created := decodeSnapshot(t, swapctl(t, url, "create",
		"-from", "ton", "-to", "stellar",
		"-amount-from", "1000", "-amount-to", "980",
		"-token-from", "TON", "-token-to", "XLM",
		"-creator", "ton=creator-ton", "-creator", "stellar=creator-xlm",
		"-key", "cli-1",
	))
	id := created.Offer.ID
	assert.Equal(t, offer.StatusOpen, created.Offer.Status)

	// same idempotency key, same offer
	again := decodeSnapshot(t, swapctl(t, url, "create",
		"-from", "ton", "-to", "stellar",
		"-amount-from", "1000", "-amount-to", "980",
		"-token-from", "TON", "-token-to", "XLM",
		"-creator", "ton=creator-ton", "-creator", "stellar=creator-xlm",
		"-key", "cli-1",
	))
	assert.Equal(t, id, again.Offer.ID)

	// flags after the offer id are accepted
	accepted := decodeSnapshot(t, swapctl(t, url, "accept", id,
		"-taker", "ton=taker-ton", "-taker", "stellar=taker-xlm", "-hash", pair.Hash))
	assert.Equal(t, pair.Hash, accepted.Offer.SecretHash.String())

	res = swapctl(t, url, "accept", "-taker", "ton=other-ton", "-taker", "stellar=other-xlm", "-hash", pair.Hash, id)
	assert.Equal(t, exitCodes["AlreadyTaken"], res.code, res.stderr)

	expires := time.Now().Add(2 * time.Hour).UTC().Truncate(time.Second).Format(time.RFC3339)
	locked := decodeSnapshot(t, swapctl(t, url, "lock", id,
		"-side", "taker", "-chain", "stellar", "-ref", "xlm-htlc",
		"-sender", "taker-xlm", "-receiver", "creator-xlm",
		"-token", "XLM", "-amount", "980", "-hash", pair.Hash, "-expires", expires))
	assert.Equal(t, offer.StatusTakerLocked, locked.Offer.Status)

	res = swapctl(t, url, "expire", id, "-side", "taker")
	assert.Equal(t, exitCodes["ExpiryViolation"], res.code, res.stderr)
	assert.Contains(t, res.stderr, "ExpiryViolation")

	res = swapctl(t, url, "-o", "yaml", "get", id)
	require.Equal(t, exitOK, res.code, res.stderr)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "TAKER_LOCKED", doc["offer"].(map[string]any)["status"])
	assert.Equal(t, "1000", doc["offer"].(map[string]any)["amount_from"])
	assert.NotContains(t, res.stdout, "{")

	res = swapctl(t, url, "list", "-status", "taker_locked,open")
	require.Equal(t, exitOK, res.code, res.stderr)
	var snaps []*offer.Snapshot
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &snaps))
	require.Len(t, snaps, 1)
	assert.Equal(t, id, snaps[0].Offer.ID)
}

func TestSwapctl_ExitCodes(t *testing.T) {
	url := newCoordinator(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no command", args: nil, want: exitUsage},
		{name: "unknown command", args: []string{"burn"}, want: exitUsage},
		{name: "missing id", args: []string{"get"}, want: exitUsage},
		{name: "extra args", args: []string{"get", "a", "b"}, want: exitUsage},
		{name: "bad side", args: []string{"expire", "-side", "maker", "x"}, want: exitUsage},
		{name: "bad format", args: []string{"-o", "xml", "get", "x"}, want: exitUsage},
		{name: "not found", args: []string{"get", "missing"}, want: exitCodes["NotFound"]},
		{name: "invalid terms", args: []string{"create", "-from", "ton", "-to", "ton"}, want: exitCodes["InvalidTerms"]},
		{name: "invalid paging", args: []string{"list", "-limit", "-1"}, want: exitCodes["InvalidTerms"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := swapctl(t, url, tt.args...)
			assert.Equal(t, tt.want, res.code, res.stderr)
		})
	}
}

func TestSwapctl_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Dependency Failure","code":502}`))
	}))
	defer srv.Close()

	res := swapctl(t, srv.URL, "get", "x")
	assert.Equal(t, exitUnavailable, res.code)
	assert.Contains(t, res.stderr, "Dependency Failure")

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	res = swapctl(t, closed.URL, "get", "x")
	assert.Equal(t, exitUnavailable, res.code)
}

func TestSwapctl_SecretFromPreimage(t *testing.T) {
	res := swapctl(t, "http://localhost:1", "-o", "yaml", "secret", "-preimage", "0x00ff")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "preimage: 00ff\n"), res.stdout)
	assert.Contains(t, res.stdout, "hash: ")
}
