package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planner"
)

func newTestService(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	svc := New(Config{EventsBuffer: 50}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	ts := httptest.NewServer(svc.Router())
	t.Cleanup(ts.Close)
	return svc, ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestFullMonthOverHTTP(t *testing.T) {
	svc, ts := newTestService(t)

	resp, body := post(t, ts, "/v1/categories", `{"name":"Groceries","budget":300,"subcategories":["Food","Household"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "setup", body["phase"])

	resp, body = post(t, ts, "/v1/start", `{"days":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "running", body["phase"])

	resp, body = post(t, ts, "/v1/spend", `{"category":"groceries","subcategory":"Food","amount":"200"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	cats := body["categories"].([]any)
	assert.EqualValues(t, 100, cats[0].(map[string]any)["remaining"])
	assert.EqualValues(t, 100, cats[0].(map[string]any)["daily_allowance"])

	resp, body = post(t, ts, "/v1/spend", `{"category":"Groceries","subcategory":"Household","amount":150}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "summary", body["phase"])
	assert.EqualValues(t, -50, body["remaining"])

	sess := svc.Session()
	assert.Equal(t, model.PhaseSummary, sess.Phase)

	resp, data := get(t, ts, "/v1/redzones")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var zones []map[string]any
	require.NoError(t, json.Unmarshal(data, &zones))
	require.Len(t, zones, 2)
	assert.Equal(t, "Food", zones[0]["subcategory"])
	assert.Equal(t, true, zones[0]["over_budget"])

	resp, data = get(t, ts, "/v1/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []Event
	require.NoError(t, json.Unmarshal(data, &events))
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	assert.Equal(t, []string{"category_added", "month_started", "spend_logged", "spend_logged", "summary_reached"}, types)
	assert.Equal(t, "Household", events[3].Subcategory)
	assert.Equal(t, 2, events[3].Day)
}

func TestRejectionsKeepState(t *testing.T) {
	svc, ts := newTestService(t)

	resp, body := post(t, ts, "/v1/start", `{"days":30}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body["error"], "add at least one category")

	resp, _ = post(t, ts, "/v1/categories", `{"name":"","budget":10,"subcategories":["a"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = post(t, ts, "/v1/categories", `{"name":"Rent","budget":10,"extra":true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts, "/v1/spend", `{"category":"Rent","subcategory":"Flat","amount":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, model.NewSession(), svc.Session())
	st := svc.snapshotStatus()
	assert.EqualValues(t, 0, st.Actions)
	assert.EqualValues(t, 3, st.Rejections)
}

func TestExportEndpoint(t *testing.T) {
	svc, ts := newTestService(t)
	ctx := context.Background()
	_, err := svc.Dispatch(ctx, planner.AddCategory{Name: "Dining", Budget: decimal.NewFromInt(50), Subcategories: []string{"Cafe"}})
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, planner.StartMonth{Days: 3})
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, planner.LogSpend{Category: 0, Subcategory: 0, Amount: decimal.RequireFromString("4.5")})
	require.NoError(t, err)

	resp, data := get(t, ts, "/v1/export/csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "budget-report-2026-05-01.csv")
	assert.Equal(t, "Category,Subcategory,Day,Amount\nDining,Cafe,1,4.5\n", string(data))

	resp, _ = get(t, ts, "/v1/export/xml")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = get(t, ts, "/v1/categories/0/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"day":1,"subcategory":"Cafe","amount":4.5}]`, string(data))

	resp, _ = get(t, ts, "/v1/categories/7/history")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	svc, ts := newTestService(t)
	_, err := svc.Dispatch(context.Background(), planner.AddCategory{Name: "A", Budget: decimal.NewFromInt(1), Subcategories: []string{"x"}})
	require.NoError(t, err)

	resp, body := post(t, ts, "/v1/reset", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "setup", body["phase"])
	assert.Empty(t, body["categories"])
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, zerolog.Nop())

	s.mu.Lock()
	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.EqualValues(t, 2, s.events[0].ID)
	assert.EqualValues(t, 3, s.events[1].ID)
}

func TestConcurrentActionsKeepEventOrder(t *testing.T) {
	const n = 40
	svc := New(Config{EventsBuffer: n}, zerolog.Nop())
	ch := make(chan Event, n)
	svc.addSubscriber(ch)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Dispatch(context.Background(), planner.AddCategory{
				Name:          fmt.Sprintf("Category %d", i),
				Budget:        decimal.NewFromInt(10),
				Subcategories: []string{"x"},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	svc.mu.RLock()
	buffered := append([]Event(nil), svc.events...)
	svc.mu.RUnlock()
	require.Len(t, buffered, n)
	for i, ev := range buffered {
		assert.EqualValues(t, i+1, ev.ID, "buffer position %d", i)
	}

	require.Len(t, ch, n)
	for i := 0; i < n; i++ {
		ev := <-ch
		assert.EqualValues(t, i+1, ev.ID, "delivery %d", i)
	}
}

func TestStreamDeliversEvents(t *testing.T) {
	svc, ts := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		_, err = reader.ReadString('\n') // data
		require.NoError(t, err)
		_, err = reader.ReadString('\n') // blank
		require.NoError(t, err)
		return strings.TrimSpace(strings.TrimPrefix(line, "event:"))
	}

	assert.Equal(t, "snapshot", readEvent())

	_, err = svc.Dispatch(context.Background(), planner.AddCategory{Name: "A", Budget: decimal.NewFromInt(1), Subcategories: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "category_added", readEvent())
}

func TestHealth(t *testing.T) {
	_, ts := newTestService(t)
	resp, data := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(data))
}
