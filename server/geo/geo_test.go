package geo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nishikaramnani04/PIH2026-SHEield/shared"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","country":"India","regionName":"Maharashtra",
			"city":"Pune","lat":18.5204,"lon":73.8567,"query":"203.0.113.7"}`)
	}))
	defer server.Close()

	resolver := NewResolver(shared.GeoConfig{Endpoint: server.URL})
	loc := resolver.Resolve()

	assert.Equal(t, "Pune, Maharashtra, India (ip 203.0.113.7)", loc.Display)
	assert.Equal(t, 18.5204, loc.Latitude)
	assert.Equal(t, 73.8567, loc.Longitude)
	assert.Equal(t, "https://www.google.com/maps?q=18.5204,73.8567", loc.MapLink)
}

func TestResolveDegradesToSentinel(t *testing.T) {
	testCases := []struct {
		desc    string
		handler http.HandlerFunc
	}{
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "{not-json") },
		},
		{
			"lookup failure reported by the service",
			func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"status":"fail"}`) },
		},
	}

	for _, tcase := range testCases {
		t.Run(tcase.desc, func(t *testing.T) {
			server := httptest.NewServer(tcase.handler)
			defer server.Close()

			loc := NewResolver(shared.GeoConfig{Endpoint: server.URL}).Resolve()
			assert.Equal(t, Unavailable(), loc)
		})
	}
}

func TestResolveTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	resolver := NewResolver(shared.GeoConfig{Endpoint: server.URL, TimeoutSeconds: 1})

	start := time.Now()
	loc := resolver.Resolve()

	assert.Equal(t, UnavailableDisplay, loc.Display)
	assert.Zero(t, loc.Latitude)
	assert.Zero(t, loc.Longitude)
	assert.Less(t, time.Since(start), 2*time.Second, "lookup should be bounded by the timeout")
}

func TestResolveConnectionRefused(t *testing.T) {
	// Point at a server that is already closed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	loc := NewResolver(shared.GeoConfig{Endpoint: url}).Resolve()
	assert.Equal(t, Unavailable(), loc)
}
