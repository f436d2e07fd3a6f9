package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/core"
	"github.com/quantfold/helix/internal/metrics"
	"github.com/quantfold/helix/internal/sandbox"
	"github.com/quantfold/helix/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCandles(n int) []core.Candle {
	candles := make([]core.Candle, n)
	for i := range candles {
		c := 100 + 15*math.Sin(float64(i)/7) + float64(i)*0.2
		candles[i] = core.Candle{
			Date:      fmt.Sprintf("2024-%02d-%02d", i/28+1, i%28+1),
			Timestamp: int64(1704067200 + i*86400),
			Open:      c - 0.5,
			High:      c + 2,
			Low:       c - 2,
			Close:     c,
			Volume:    int64(1000 + 50*(i%5)),
		}
	}
	return candles
}

func testServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	return NewServer(
		Config{
			Host:    "127.0.0.1",
			Port:    0,
			APIKey:  apiKey,
			JobTTL:  time.Hour,
			MaxJobs: 10,
			Defaults: backtest.Config{
				InitialCapital:  100000,
				PositionSizePct: 10,
			},
		},
		strategy.NewDefaultEngine(),
		sandbox.NewExecutor(),
		nil,
		metrics.NewRegistry(),
		zap.NewNop(),
	)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestServer_Health(t *testing.T) {
	srv := testServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_ListStrategies(t *testing.T) {
	srv := testServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/strategies", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 14)
	for _, s := range envelope.Data {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Description)
	}
}

func TestServer_BacktestJobFlow(t *testing.T) {
	srv := testServer(t, "")
	h := srv.Handler()

	rec := postJSON(t, h, "/api/backtest", map[string]any{
		"strategy": "ma_crossover",
		"candles":  testCandles(120),
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	jobID, _ := dataField(t, rec)["job_id"].(string)
	require.NotEmpty(t, jobID)

	// Poll until the background run completes.
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/backtest/"+jobID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		data := dataField(t, rec)
		if data["status"] == "complete" {
			require.NotNil(t, data["result"])
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, last status %v", data["status"])
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_BacktestUnknownStrategy(t *testing.T) {
	srv := testServer(t, "")

	rec := postJSON(t, srv.Handler(), "/api/backtest", map[string]any{
		"strategy": "does_not_exist",
		"candles":  testCandles(120),
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_BacktestShortSeries(t *testing.T) {
	srv := testServer(t, "")

	rec := postJSON(t, srv.Handler(), "/api/backtest", map[string]any{
		"strategy": "ma_crossover",
		"candles":  testCandles(10),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_BacktestJobNotFound(t *testing.T) {
	srv := testServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/backtest/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CustomStrategy(t *testing.T) {
	srv := testServer(t, "")

	code := `
		function strategy(data) {
			var out = [];
			for (var i = 0; i < data.length; i++) {
				out.push('HOLD');
			}
			out[60] = 'BUY';
			out[80] = 'SELL';
			return out;
		}
	`
	rec := postJSON(t, srv.Handler(), "/api/backtest/custom", map[string]any{
		"code":    code,
		"candles": testCandles(120),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, rec)
	result, _ := data["result"].(map[string]any)
	require.NotNil(t, result)
	assert.Equal(t, float64(1), result["totalTrades"])
}

func TestServer_CustomStrategyErrorsAreData(t *testing.T) {
	srv := testServer(t, "")

	rec := postJSON(t, srv.Handler(), "/api/backtest/custom", map[string]any{
		"code":    `function strategy() { throw new Error('boom'); }`,
		"candles": testCandles(120),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, rec)
	errs, _ := data["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0])

	// Simulation still ran over the all-null signals.
	result, _ := data["result"].(map[string]any)
	require.NotNil(t, result)
	assert.Equal(t, float64(0), result["totalTrades"])
}

func TestServer_Compare(t *testing.T) {
	srv := testServer(t, "")

	rec := postJSON(t, srv.Handler(), "/api/compare", map[string]any{
		"candles": testCandles(120),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []struct {
			Strategy string `json:"strategy"`
			Result   struct {
				TotalReturnPct float64 `json:"totalReturnPct"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 14)

	for i := 1; i < len(envelope.Data); i++ {
		assert.GreaterOrEqual(t,
			envelope.Data[i-1].Result.TotalReturnPct,
			envelope.Data[i].Result.TotalReturnPct)
	}
}

func TestServer_AuthRequired(t *testing.T) {
	srv := testServer(t, "secret")
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/strategies", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/api/strategies", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Health stays open.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

// panicStrategy blows up during signal generation.
type panicStrategy struct{}

func (panicStrategy) Name() string        { return "unstable" }
func (panicStrategy) Description() string { return "panics on evaluation" }
func (panicStrategy) Signals(candles []core.Candle) []core.Action {
	panic("index out of range in signal window")
}

func pollJob(t *testing.T, h http.Handler, jobID, wantStatus string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/backtest/"+jobID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		data := dataField(t, rec)
		if data["status"] == wantStatus {
			return data
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never reached %q, last status %v", wantStatus, data["status"])
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_PanickingStrategyFailsJob(t *testing.T) {
	engine := strategy.NewDefaultEngine()
	engine.Register(panicStrategy{})

	srv := NewServer(
		Config{
			Host: "127.0.0.1", Port: 0, JobTTL: time.Hour, MaxJobs: 10,
			Defaults: backtest.Config{InitialCapital: 100000, PositionSizePct: 10},
		},
		engine, sandbox.NewExecutor(), nil, metrics.NewRegistry(), zap.NewNop(),
	)
	h := srv.Handler()

	rec := postJSON(t, h, "/api/backtest", map[string]any{
		"strategy": "unstable",
		"candles":  testCandles(120),
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	jobID, _ := dataField(t, rec)["job_id"].(string)
	require.NotEmpty(t, jobID)

	data := pollJob(t, h, jobID, "failed")
	errObj, _ := data["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "STRATEGY_FAILED", errObj["code"])
}

func metricValue(t *testing.T, reg *metrics.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var sum float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				sum += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				sum += g.GetValue()
			}
		}
	}
	return sum
}

func TestServer_BusinessMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	srv := NewServer(
		Config{
			Host: "127.0.0.1", Port: 0, JobTTL: time.Hour, MaxJobs: 10,
			Defaults: backtest.Config{InitialCapital: 100000, PositionSizePct: 10},
		},
		strategy.NewDefaultEngine(), sandbox.NewExecutor(), nil, reg, zap.NewNop(),
	)
	h := srv.Handler()

	rec := postJSON(t, h, "/api/backtest", map[string]any{
		"strategy": "ma_crossover",
		"candles":  testCandles(120),
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	jobID, _ := dataField(t, rec)["job_id"].(string)
	pollJob(t, h, jobID, "complete")

	assert.Equal(t, float64(120), metricValue(t, reg, "helix_candles_loaded_total"))
	assert.Equal(t, float64(1), metricValue(t, reg, "helix_jobs_active"))
	assert.Equal(t, float64(1), metricValue(t, reg, "helix_backtests_total"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := testServer(t, "")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
