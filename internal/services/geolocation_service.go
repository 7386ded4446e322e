package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"rentalcv/internal/caching"
)

// Fallback jurisdiction applied when the lookup provider is unreachable or
// returns garbage. Onboarding must never block on a third-party outage.
const (
	DefaultCountry = "United States"
	DefaultRegion  = "US"
)

const geoCacheTTL = 24 * time.Hour

// GeolocationService resolves an IP address to a jurisdiction via an external
// API, with a Redis cache in front of it.
type GeolocationService interface {
	Lookup(ctx context.Context, ip string) (*caching.GeoLocation, error)
	// LookupOrDefault never fails: any lookup error degrades to the fixed
	// default jurisdiction.
	LookupOrDefault(ctx context.Context, ip string) *caching.GeoLocation
}

type geolocationService struct {
	baseURL  string
	http     *http.Client
	cacheSvc caching.CacheService
}

// NewGeolocationService creates a geolocation service against an ip-api style
// endpoint (GET <base>/<ip> returning JSON).
func NewGeolocationService(baseURL string, cacheSvc caching.CacheService) GeolocationService {
	return &geolocationService{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 5 * time.Second},
		cacheSvc: cacheSvc,
	}
}

type geoAPIResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
	Message    string `json:"message"`
}

func (s *geolocationService) Lookup(ctx context.Context, ip string) (*caching.GeoLocation, error) {
	if ip == "" {
		return nil, fmt.Errorf("ip address is required")
	}

	if cached, err := s.cacheSvc.GetGeoLocation(ctx, ip); err == nil && cached != nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation lookup failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation lookup returned status %d", resp.StatusCode)
	}

	var apiResp geoAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %v", err)
	}
	if apiResp.Status != "" && apiResp.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup failed: %s", apiResp.Message)
	}

	location := &caching.GeoLocation{
		Country:  apiResp.Country,
		Region:   apiResp.RegionName,
		City:     apiResp.City,
		Timezone: apiResp.Timezone,
	}

	if err := s.cacheSvc.SetGeoLocation(ctx, ip, location, geoCacheTTL); err != nil {
		log.Printf("WARN: failed to cache geolocation for %s: %v", ip, err)
	}

	return location, nil
}

func (s *geolocationService) LookupOrDefault(ctx context.Context, ip string) *caching.GeoLocation {
	location, err := s.Lookup(ctx, ip)
	if err != nil || location == nil || location.Country == "" {
		if err != nil {
			log.Printf("WARN: geolocation fallback for ip %s: %v", ip, err)
		}
		return &caching.GeoLocation{Country: DefaultCountry, Region: DefaultRegion}
	}
	return location
}
