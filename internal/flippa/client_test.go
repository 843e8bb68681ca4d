package flippa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

const searchBody = `{
	"meta": {"page_number": 1, "page_size": 2, "total_results": 5},
	"links": {},
	"data": [
		{"id": "1", "title": "Alpha", "property_type": "saas", "current_price": 24000, "revenue_per_month": 1000, "uniques_per_month": null},
		{"id": "2", "title": "Beta", "property_type": "saas", "current_price": null, "revenue_per_month": null}
	]
}`

// fastPolicy keeps retry tests quick while preserving attempt counts.
func fastPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:        3,
		BaseDelay:         time.Millisecond,
		Multiplier:        2,
		DefaultRetryAfter: 20 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) (*Client, *int32) {
	t.Helper()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	base := []ClientOption{
		WithBaseURL(server.URL),
		WithRetryPolicy(fastPolicy()),
		WithLogger(arbor.NewLogger()),
	}
	return NewClient(append(base, opts...)...), &calls
}

func TestClient_SearchListings_Success(t *testing.T) {
	var gotQuery url.Values
	var gotHeaders http.Header
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/listings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}, WithAPIToken("secret-token"), WithUserAgent("flipscout/test"))

	page, err := client.SearchListings(context.Background(), SearchParams{
		PageNumber:   2,
		PageSize:     50,
		PropertyType: "saas",
		Status:       StatusOpen,
		SaleMethod:   "auction",
		SortAlias:    SortHighestPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, 5, page.Meta.TotalResults)
	require.Len(t, page.Data, 2)
	require.NotNil(t, page.Data[0].CurrentPrice)
	assert.Equal(t, 24000.0, *page.Data[0].CurrentPrice)
	assert.Nil(t, page.Data[0].UniquesPerMonth)
	assert.Nil(t, page.Data[1].CurrentPrice)

	assert.Equal(t, "2", gotQuery.Get("page_number"))
	assert.Equal(t, "50", gotQuery.Get("page_size"))
	assert.Equal(t, "saas", gotQuery.Get("filter[property_type]"))
	assert.Equal(t, "open", gotQuery.Get("filter[status]"))
	assert.Equal(t, "auction", gotQuery.Get("filter[sale_method]"))
	assert.Equal(t, "highest_price", gotQuery.Get("sort_alias"))

	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "flipscout/test", gotHeaders.Get("User-Agent"))
	assert.Equal(t, "Bearer secret-token", gotHeaders.Get("Authorization"))
}

func TestClient_DropsUnsetParamsAndOmitsAuth(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"meta": {"page_number": 1, "page_size": 30, "total_results": 0}, "data": []}`))
	})

	page, err := client.SearchListings(context.Background(), SearchParams{Status: StatusOpen})
	require.NoError(t, err)

	assert.Empty(t, page.Data)
	assert.Equal(t, map[string][]string{"filter[status]": {"open"}}, gotQuery)
	assert.Empty(t, gotAuth)
}

func TestClient_GetListing(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/99999", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"data": {"id": "99999", "title": "Gamma", "bid_count": 3, "images": [{"url": "https://img"}]}}`))
	})

	listing, err := client.GetListing(context.Background(), "99999")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "99999", listing.ID)
	assert.Equal(t, 3, listing.BidCount)
	require.Len(t, listing.Images, 1)
	assert.Equal(t, "https://img", listing.Images[0].URL)
}

func TestClient_GetListing_EmptyIDIsUsageError(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.GetListing(context.Background(), "")

	assert.Equal(t, KindUsage, KindOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetListing(context.Background(), "missing")
	require.Error(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, KindClientStatus, KindOf(err))
	assert.Equal(t, http.StatusNotFound, StatusCodeOf(err))

	var cse *ClientStatusError
	require.True(t, errors.As(err, &cse))
	assert.Contains(t, cse.Error(), "404")
}

func TestClient_BadRequestIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.SearchListings(context.Background(), SearchParams{})

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, http.StatusBadRequest, StatusCodeOf(err))
}

func TestClient_PersistentServerErrorExhaustsRetries(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchListings(context.Background(), SearchParams{})
	require.Error(t, err)

	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
	assert.Equal(t, KindExhaustedRetries, KindOf(err))
	assert.Equal(t, 0, StatusCodeOf(err))
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Contains(t, err.Error(), "500")

	// every attempt took a limiter slot
	assert.Equal(t, 4, client.Limiter().Used())
}

func TestClient_RecoversFromTransientFailure(t *testing.T) {
	var n int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(searchBody))
	})

	page, err := client.SearchListings(context.Background(), SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Len(t, page.Data, 2)
}

func TestClient_TooManyRequestsWaitsAndRetries(t *testing.T) {
	var n int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(searchBody))
	})

	start := time.Now()
	_, err := client.SearchListings(context.Background(), SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestClient_PersistentTooManyRequestsExhaustsRetries(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchListings(context.Background(), SearchParams{})

	assert.Equal(t, int32(4), atomic.LoadInt32(calls))
	assert.Equal(t, KindExhaustedRetries, KindOf(err))
	assert.Contains(t, err.Error(), "429")
}

func TestClient_TimeoutCountsAsTransportFailure(t *testing.T) {
	var n int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		w.Write([]byte(searchBody))
	}, WithTimeout(50*time.Millisecond))

	page, err := client.SearchListings(context.Background(), SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
	assert.Len(t, page.Data, 2)
}

func TestClient_UndecodableBodyIsDecodeError(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := client.SearchListings(context.Background(), SearchParams{})

	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestClient_MissingDataObjectIsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"links": {}}`))
	})

	_, err := client.GetListing(context.Background(), "1")

	assert.Equal(t, KindDecode, KindOf(err))
}

func TestClient_CancelledDuringBackoff(t *testing.T) {
	policy := fastPolicy()
	policy.BaseDelay = time.Hour
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetryPolicy(policy))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.SearchListings(ctx, SearchParams{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "", string(KindOf(err)))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestSearchPage_HasMore(t *testing.T) {
	tests := []struct {
		name string
		meta Meta
		want bool
	}{
		{name: "more pages", meta: Meta{PageNumber: 1, PageSize: 30, TotalResults: 31}, want: true},
		{name: "exact last page", meta: Meta{PageNumber: 2, PageSize: 30, TotalResults: 60}, want: false},
		{name: "empty result", meta: Meta{PageNumber: 1, PageSize: 30, TotalResults: 0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &SearchPage{Meta: tt.meta}
			assert.Equal(t, tt.want, page.HasMore())
		})
	}
}
