package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ip-tracker/internal/query"
)

const googleDNS = `{
  "ip": "8.8.8.8",
  "location": {
    "country": "US",
    "region": "California",
    "city": "Mountain View",
    "lat": 37.40599,
    "lng": -122.078514,
    "postalCode": "94043",
    "timezone": "-07:00"
  },
  "isp": "Google LLC"
}`

func TestClient_Lookup_IPv4(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(googleDNS))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", srv.Client())
	rec, err := c.Lookup(context.Background(), query.Classify("8.8.8.8"))
	require.NoError(t, err)

	assert.Equal(t, []string{"secret"}, gotQuery["apiKey"])
	assert.Equal(t, []string{"8.8.8.8"}, gotQuery["ipAddress"])
	assert.NotContains(t, gotQuery, "domain")

	assert.Equal(t, "8.8.8.8", rec.IP)
	assert.Equal(t, "Google LLC", rec.ISP)
	assert.Equal(t, "Mountain View", rec.Location.City)
	assert.Equal(t, "California", rec.Location.Region)
	assert.Equal(t, "-07:00", rec.Location.Timezone)
	assert.InDelta(t, 37.40599, rec.Location.Lat, 1e-9)
	assert.InDelta(t, -122.078514, rec.Location.Lng, 1e-9)
}

func TestClient_Lookup_DomainAndInvalid(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(googleDNS))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", srv.Client())

	_, err := c.Lookup(context.Background(), query.Classify("google.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"google.com"}, gotQuery["domain"])
	assert.NotContains(t, gotQuery, "ipAddress")

	_, err = c.Lookup(context.Background(), query.Classify("not an address"))
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "domain")
	assert.NotContains(t, gotQuery, "ipAddress")
	assert.Equal(t, []string{"secret"}, gotQuery["apiKey"])
}

func TestClient_Lookup_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"messages":"Input correct IP address or domain."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", srv.Client())
	rec, err := c.Lookup(context.Background(), query.Classify("example.com"))
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.True(t, IsInvalidParameter(err))

	var re *RejectedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Input correct IP address or domain.", re.Messages)
}

func TestClient_Lookup_ErrorCodeWithOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":400,"messages":"bad"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret", srv.Client()).Lookup(context.Background(), query.Classify("8.8.8.8"))
	assert.True(t, IsInvalidParameter(err))
}

func TestClient_Lookup_NonJSONError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "<html>bad gateway</html>", status)
		}))

		rec, err := NewClient(srv.URL, "secret", srv.Client()).Lookup(context.Background(), query.Classify("8.8.8.8"))
		srv.Close()
		assert.Nil(t, rec)
		assert.True(t, errors.Is(err, ErrRequestFailed), "status %d", status)
		assert.False(t, errors.Is(err, ErrRejected), "status %d", status)
		assert.False(t, IsInvalidParameter(err), "status %d", status)
	}
}

func TestClient_Lookup_JSONErrorWithStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":403,"messages":"Access restricted. Check credits balance or enter the correct API key."}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret", srv.Client()).Lookup(context.Background(), query.Classify("8.8.8.8"))
	var re *RejectedError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusForbidden, re.Code)
	assert.False(t, IsInvalidParameter(err))
}

func TestClient_Lookup_RequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "secret", nil).Lookup(context.Background(), query.Classify("8.8.8.8"))
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.False(t, errors.Is(err, ErrRejected))
}

func TestClient_Lookup_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ip":`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret", srv.Client()).Lookup(context.Background(), query.Classify("8.8.8.8"))
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestClient_Lookup_MissingKey(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", "", nil).Lookup(context.Background(), query.Classify("8.8.8.8"))
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestClient_RequestURL(t *testing.T) {
	c := NewClient("", "k", nil)
	assert.Equal(t, DefaultBaseURL+"?apiKey=k&ipAddress=1.2.3.4", c.RequestURL(query.Classify("1.2.3.4")))
	assert.Equal(t, DefaultBaseURL+"?apiKey=k&domain=example.com", c.RequestURL(query.Classify("example.com")))
	assert.Equal(t, DefaultBaseURL+"?apiKey=k", c.RequestURL(query.Classify("")))

	c = NewClient("https://svc.example/api?v=2", "k", nil)
	assert.Equal(t, "https://svc.example/api?v=2&apiKey=k&domain=a-b.io", c.RequestURL(query.Classify("a-b.io")))
}
