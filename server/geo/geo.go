package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nishikaramnani04/PIH2026-SHEield/server/logger"
	"github.com/nishikaramnani04/PIH2026-SHEield/shared"
)

const (
	DefaultEndpoint       = "http://ip-api.com/json"
	DefaultTimeoutSeconds = 3

	UnavailableDisplay = "Location unavailable"
)

var logg = logger.NewLogger()

type Location struct {
	Display   string  `json:"display"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	MapLink   string  `json:"map_link"`
}

// Unavailable is the fixed sentinel returned whenever a lookup fails. Callers
// treat it as a valid, if degraded, outcome - never as an error.
func Unavailable() Location {
	return Location{Display: UnavailableDisplay}
}

type ipAPIResponse struct {
	Status     string  `json:"status"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Query      string  `json:"query"`
}

// Resolver translates the caller's public address into an approximate place
// name and coordinates, best effort.
type Resolver struct {
	endpoint string
	client   *http.Client
}

func NewResolver(config shared.GeoConfig) *Resolver {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds
	}

	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Resolve never returns an error. Any network failure, timeout or malformed
// response degrades to the Unavailable sentinel.
func (r *Resolver) Resolve() Location {
	resp, err := r.client.Get(r.endpoint)
	if err != nil {
		logg.Warnf("location lookup failed: %v", err)
		return Unavailable()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logg.Warnf("location lookup failed: unexpected status %v", resp.Status)
		return Unavailable()
	}

	payload := ipAPIResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logg.Warnf("location lookup failed: malformed response: %v", err)
		return Unavailable()
	}

	if payload.Status != "success" {
		logg.Warnf("location lookup failed: status=%v", payload.Status)
		return Unavailable()
	}

	return Location{
		Display:   displayText(payload),
		Latitude:  payload.Lat,
		Longitude: payload.Lon,
		MapLink:   fmt.Sprintf("https://www.google.com/maps?q=%v,%v", payload.Lat, payload.Lon),
	}
}

func displayText(payload ipAPIResponse) string {
	parts := []string{}
	for _, part := range []string{payload.City, payload.RegionName, payload.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	display := strings.Join(parts, ", ")
	if payload.Query != "" {
		display = fmt.Sprintf("%v (ip %v)", display, payload.Query)
	}

	return display
}
