package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/config/testconfig"
	"github.com/edgeorch/rater/logger"
	"github.com/edgeorch/rater/resource"
	"github.com/edgeorch/rater/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	log := logger.NewLogger("test-server", logger.DebugConfig())
	log.Discard()
	return log
}

func testSnapshot() resource.Snapshot {
	return resource.Snapshot{
		resource.NetBandwidth: 100,
		resource.CPUFreq:      2.5,
		resource.CPUUsage:     0.5,
		resource.CPUCount:     4,
	}
}

func newTestServer(t *testing.T, conf config.Server, q scoring.Query) *httptest.Server {
	reg := scoring.NewDefaultRegistry()
	reg.MustRegister("nan", scoring.StrategyFunc(func(scoring.Query) float64 {
		return scoring.RenderingScore(0) - scoring.RenderingScore(0)
	}))
	srv := httptest.NewServer(New(conf, reg, scoring.PerformanceName, q, testLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, v interface{}) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestListStrategies(t *testing.T) {
	srv := newTestServer(t, config.Server{}, testSnapshot())

	var out StrategiesResponse
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/strategies", &out))
	assert.Equal(t, []string{"linear", "linear-compact", "nan", "performance"}, out.Strategies)
}

func TestScore(t *testing.T) {
	srv := newTestServer(t, config.Server{}, testSnapshot())

	var out ScoreResponse
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/score/performance", &out))
	assert.Equal(t, "performance", out.Strategy)
	assert.True(t, out.Finite)
	require.NotNil(t, out.Score)
	assert.InEpsilon(t, 0.16445955510433763, *out.Score, 1e-9)
}

func TestScoreBoundStrategy(t *testing.T) {
	srv := newTestServer(t, config.Server{}, testSnapshot())

	var out ScoreResponse
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/score", &out))
	assert.Equal(t, "performance", out.Strategy)
	require.NotNil(t, out.Score)
	assert.InEpsilon(t, 0.16445955510433763, *out.Score, 1e-9)
}

func TestScoreMissingResource(t *testing.T) {
	snap := testSnapshot()
	delete(snap, resource.CPUUsage)
	srv := newTestServer(t, config.Server{}, snap)

	var out ScoreResponse
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/score/performance", &out))
	require.NotNil(t, out.Score)
	assert.Equal(t, 0.0, *out.Score)
}

func TestScoreNonFinite(t *testing.T) {
	srv := newTestServer(t, config.Server{}, testSnapshot())

	resp, err := http.Get(srv.URL + "/v1/score/nan")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"strategy": "nan", "score": null, "finite": false}`, string(body))
}

func TestScoreUnknownStrategy(t *testing.T) {
	srv := newTestServer(t, config.Server{}, testSnapshot())

	var out ErrorResponse
	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/v1/score/fastest", &out))
	assert.Contains(t, out.Error, "unknown strategy")
}

func TestScoreRateLimit(t *testing.T) {
	srv := newTestServer(t, config.Server{RateLimit: 0.001, RateBurst: 2}, testSnapshot())

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, get(t, srv.URL+"/v1/score/performance", nil))
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Listing strategies isn't limited.
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/v1/strategies", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, config.Server{}, testSnapshot())
	get(t, srv.URL+"/v1/score/linear", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `rater_scoring_score{strategy="linear"}`))
}

func TestServe(t *testing.T) {
	conf := testconfig.RandomPortConfig(config.DefaultConfig()).Server
	s := New(conf, scoring.NewDefaultRegistry(), scoring.PerformanceName, testSnapshot(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx) }()

	url := fmt.Sprintf("http://%s/v1/strategies", conf.ListenAddress())
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second*5, time.Millisecond*20)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second * 10):
		t.Fatal("server did not shut down")
	}
}
