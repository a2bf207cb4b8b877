package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/mbudget/internal/server"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	svc := server.New(server.Config{EventsBuffer: 10}, zerolog.Nop())
	ts := httptest.NewServer(svc.Router())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestNewNormalizesAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"127.0.0.1:8087", "http://127.0.0.1:8087"},
		{"http://localhost:9000/", "http://localhost:9000"},
		{" https://budget.example ", "https://budget.example"},
	}
	for _, tt := range tests {
		if got := New(tt.in).baseURL; got != tt.want {
			t.Errorf("New(%q).baseURL = %q, want %q", tt.in, got, tt.want)
		}
	}
	if New("  ") != nil {
		t.Error("empty address should give a nil client")
	}
}

func TestMonthRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	snap, err := c.AddCategory(ctx, "Groceries", decimal.NewFromInt(100), []string{"Food", "Snacks"})
	require.NoError(t, err)
	assert.Equal(t, "setup", snap.Phase)
	require.Len(t, snap.Categories, 1)

	snap, err = c.StartMonth(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "running", snap.Phase)
	assert.Equal(t, 2, snap.TotalDays)

	snap, err = c.LogSpend(ctx, "groceries", "snacks", decimal.RequireFromString("40.5"))
	require.NoError(t, err)
	assert.Equal(t, "59.5", snap.Categories[0].Remaining.String())
	assert.Equal(t, 1, snap.Categories[0].DaysLogged)

	_, err = c.LogSpend(ctx, "Groceries", "Food", decimal.NewFromInt(70))
	require.NoError(t, err)

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "summary", st.Totals.Phase)
	assert.Equal(t, int64(4), st.Actions)

	csv, err := c.Export(ctx, "csv")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(csv), "Groceries"), "csv should list the category")

	snap, err = c.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "setup", snap.Phase)
	assert.Empty(t, snap.Categories)
}

func TestErrorsMapToSentinels(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.StartMonth(ctx, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected), "got %v", err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "add at least one category")

	_, err = c.AddCategory(ctx, "Rent", decimal.NewFromInt(900), []string{"Rent"})
	require.NoError(t, err)
	_, err = c.StartMonth(ctx, 3)
	require.NoError(t, err)

	_, err = c.LogSpend(ctx, "Travel", "Fuel", decimal.NewFromInt(5))
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = c.Export(ctx, "xml")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(nil)
	addr := ts.URL
	ts.Close()

	_, err := New(addr).Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
