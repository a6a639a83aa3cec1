package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cape-app/cape/internal/common"
	"github.com/cape-app/cape/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) AccessToken(_ context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, staticTokens("test-token"))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestListTransactions_SendsAuthAndQuery(t *testing.T) {
	var gotAuth, gotQuery string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []model.Transaction{
				{ID: "t1", Amount: "45000"},
			},
			"pagination": map[string]int{
				"total": 45, "page": 1, "limit": 20, "totalPages": 3,
			},
		})
	})

	params := model.ListParams{Month: "2024-05", Limit: 20}
	transactions, page, err := client.ListTransactions(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotQuery, "month=2024-05")
	assert.Contains(t, gotQuery, "limit=20")
	require.Len(t, transactions, 1)
	assert.Equal(t, "45000", transactions[0].Amount)
	require.NotNil(t, page)
	assert.Equal(t, 45, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestListTransactions_NoTokenOmitsHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, staticTokens(""))
	require.NoError(t, err)

	_, _, err = client.ListTransactions(context.Background(), model.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDo_ServerErrorSurfacesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Amount tidak valid"}}`))
	})

	_, err := client.CreateTransaction(context.Background(), model.CreateTransactionInput{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Amount tidak valid", apiErr.Message)
	assert.Equal(t, "Amount tidak valid", Message(err, "fallback"))
}

func TestDo_SuccessFalseIsFailure(t *testing.T) {
	// 200 with success:false still counts as a failure.
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"AI_LIMIT","message":"Limit AI harian tercapai"}}`))
	})

	_, err := client.ParseWithAi(context.Background(), "Kopi Starbucks 45k")
	require.Error(t, err)
	assert.Equal(t, "Limit AI harian tercapai", Message(err, ""))
}

func TestDo_StatusSentinels(t *testing.T) {
	tests := []struct {
		want   error
		name   string
		status int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: common.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: common.ErrForbidden},
		{name: "not found", status: http.StatusNotFound, want: common.ErrNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, want: common.ErrRateLimit},
		{name: "server error", status: http.StatusInternalServerError, want: common.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"success":false,"error":{"code":"X","message":"nope"}}`))
			})

			_, err := client.Profile(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestMessage_FallbackForTransportErrors(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, "Terjadi kesalahan", Message(err, "Terjadi kesalahan"))
}

func TestParseWithAi_DecodesResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Kopi Starbucks 45k", body.Input)

		_, _ = w.Write([]byte(`{"success":true,"data":{
			"transaction":{"id":"t9","amount":"45000","isAiGenerated":true,"aiConfidence":0.93},
			"parsed":{"original":"Kopi Starbucks 45k","detected":{
				"description":"Kopi Starbucks","amount":45000,
				"categoryName":"Makanan & Minuman","confidence":0.93}}}}`))
	})

	result, err := client.ParseWithAi(context.Background(), "Kopi Starbucks 45k")
	require.NoError(t, err)
	assert.True(t, result.Transaction.IsAiGenerated)
	assert.Equal(t, "45000", result.Transaction.Amount)
	require.NotNil(t, result.Transaction.AiConfidence)
	assert.InDelta(t, 0.93, *result.Transaction.AiConfidence, 0.001)
	assert.InDelta(t, 45000.0, result.Parsed.Detected.Amount, 0.001)
}

func TestDeleteCategory_ReportsOrphanCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/admin/categories/cat-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"message":"deleted","orphanedTransactions":3}}`))
	})

	result, err := client.DeleteCategory(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.OrphanedTransactions)
}

func TestSetAiLimit_SendsNullForDefault(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(raw)
		gotBody = string(raw)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, client.SetAiLimit(context.Background(), "u1", nil))
	assert.JSONEq(t, `{"limit":null}`, gotBody)

	unlimited := model.UnlimitedAiLimit
	require.NoError(t, client.SetAiLimit(context.Background(), "u1", &unlimited))
	assert.JSONEq(t, `{"limit":-1}`, gotBody)
}
