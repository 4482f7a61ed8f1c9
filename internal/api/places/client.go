package places

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"

	"github.com/intellitravel/go-travel-recommendations/app/observability/metrics"
	"github.com/intellitravel/go-travel-recommendations/internal/types"
)

const photoBaseURL = "https://maps.googleapis.com/maps/api/place/photo"

// fallbackDestinationImage is served when the directory has no landmark photo
// for a destination.
const fallbackDestinationImage = "https://images.unsplash.com/photo-1488646953014-85cb44e25828?q=80&w=1000"

// detailFields is the enumerated field set requested on every detail fetch.
var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskUserRatingsTotal,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	maps.PlaceDetailsFieldMaskWebsite,
	maps.PlaceDetailsFieldMaskOpeningHours,
	maps.PlaceDetailsFieldMaskPriceLevel,
	maps.PlaceDetailsFieldMaskReviews,
	maps.PlaceDetailsFieldMaskPhotos,
	maps.PlaceDetailsFieldMaskTypes,
	maps.PlaceDetailsFieldMaskURL,
	maps.PlaceDetailsFieldMaskGeometry,
}

// Client wraps the Google Maps web service client behind the narrow contracts
// the pipeline needs: geocoding, text search and detail fetches. Outbound
// calls share a rate limiter and carry an explicit per-call timeout so a slow
// provider degrades to the same non-fatal outcome as an error.
type Client struct {
	gm      *maps.Client
	apiKey  string
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(apiKey string, requestsPerSecond float64, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places: API key is not set")
	}
	gm, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("places: failed to create maps client: %w", err)
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		gm:      gm,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// acquire waits for rate-limiter headroom and derives the per-call context.
func (c *Client) acquire(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: rate limiter: %v", types.ErrProviderUnavailable, err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	return callCtx, cancel, nil
}

// Geocode resolves a free-text location to coordinates. A destination the
// provider does not know yields ErrNotFound, not a provider error.
func (c *Client) Geocode(ctx context.Context, address string) (types.Coordinates, error) {
	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return types.Coordinates{}, err
	}
	defer cancel()

	metrics.Get().ProviderCallsTotal.Add(ctx, 1)
	results, err := c.gm.Geocode(callCtx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		metrics.Get().ProviderCallErrorsTotal.Add(ctx, 1)
		return types.Coordinates{}, fmt.Errorf("%w: geocode %q: %v", types.ErrProviderUnavailable, address, err)
	}
	if len(results) == 0 {
		return types.Coordinates{}, fmt.Errorf("%w: no geocoding match for %q", types.ErrNotFound, address)
	}
	loc := results[0].Geometry.Location
	return types.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// TextSearch runs one directory query constrained to the given coordinates and
// radius (zero radius leaves the search unconstrained). placeType is
// optional; when set the query is typed.
func (c *Client) TextSearch(ctx context.Context, query string, location types.Coordinates, radius uint, placeType string) ([]types.RawPlace, error) {
	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	req := &maps.TextSearchRequest{Query: query}
	if radius > 0 {
		req.Location = &maps.LatLng{Lat: location.Lat, Lng: location.Lng}
		req.Radius = radius
	}
	if placeType != "" {
		req.Type = maps.PlaceType(placeType)
	}

	metrics.Get().ProviderCallsTotal.Add(ctx, 1)
	resp, err := c.gm.TextSearch(callCtx, req)
	if err != nil {
		metrics.Get().ProviderCallErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("%w: text search %q: %v", types.ErrProviderUnavailable, query, err)
	}

	places := make([]types.RawPlace, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, placeFromSearchResult(r, c.apiKey))
	}
	return places, nil
}

// PlaceDetails fetches the detail record for one place identifier.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*types.RawPlace, error) {
	callCtx, cancel, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	metrics.Get().ProviderCallsTotal.Add(ctx, 1)
	resp, err := c.gm.PlaceDetails(callCtx, &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields:  detailFields,
	})
	if err != nil {
		metrics.Get().ProviderCallErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("%w: place details %s: %v", types.ErrProviderUnavailable, placeID, err)
	}

	place := placeFromDetailsResult(resp, c.apiKey)
	place.PlaceID = placeID
	return &place, nil
}

// DestinationImage finds a landmark photo URL for a destination, falling back
// to a stock travel image when the directory has nothing usable.
func (c *Client) DestinationImage(ctx context.Context, destination string) (string, error) {
	results, err := c.TextSearch(ctx, "landmark "+destination, types.Coordinates{}, 0, "tourist_attraction")
	if err != nil {
		c.logger.WarnContext(ctx, "Destination image lookup failed, using fallback",
			slog.String("destination", destination), slog.Any("error", err))
		return fallbackDestinationImage, nil
	}
	if len(results) == 0 || len(results[0].PhotoRefs) == 0 {
		return fallbackDestinationImage, nil
	}
	return results[0].PhotoRefs[0], nil
}

func placeFromSearchResult(r maps.PlacesSearchResult, apiKey string) types.RawPlace {
	p := types.RawPlace{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		Rating:           float64(r.Rating),
		UserRatingsTotal: r.UserRatingsTotal,
		Vicinity:         r.Vicinity,
		FormattedAddress: r.FormattedAddress,
		Location:         types.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Types:            r.Types,
	}
	// The wire format omits price_level for unknown; the client decodes that
	// as zero, so zero is treated as unknown here.
	if r.PriceLevel > 0 {
		pl := r.PriceLevel
		p.PriceLevel = &pl
	}
	if r.OpeningHours != nil {
		p.OpenNow = r.OpeningHours.OpenNow
		p.WeekdayText = r.OpeningHours.WeekdayText
	}
	for _, photo := range r.Photos {
		p.PhotoRefs = append(p.PhotoRefs, PhotoURL(photo.PhotoReference, apiKey))
	}
	return p
}

func placeFromDetailsResult(r maps.PlaceDetailsResult, apiKey string) types.RawPlace {
	p := types.RawPlace{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		Rating:           float64(r.Rating),
		UserRatingsTotal: r.UserRatingsTotal,
		Vicinity:         r.Vicinity,
		FormattedAddress: r.FormattedAddress,
		Location:         types.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Types:            r.Types,
		MapURL:           r.URL,
		Website:          r.Website,
		Phone:            r.FormattedPhoneNumber,
	}
	if r.PriceLevel > 0 {
		pl := r.PriceLevel
		p.PriceLevel = &pl
	}
	if r.OpeningHours != nil {
		p.OpenNow = r.OpeningHours.OpenNow
		p.WeekdayText = r.OpeningHours.WeekdayText
	}
	for _, photo := range r.Photos {
		p.PhotoRefs = append(p.PhotoRefs, PhotoURL(photo.PhotoReference, apiKey))
	}
	return p
}

// PhotoURL builds the Places Photo API URL for a photo reference.
func PhotoURL(photoReference, apiKey string) string {
	q := url.Values{}
	q.Set("maxwidth", "1000")
	q.Set("photoreference", photoReference)
	q.Set("key", apiKey)
	return photoBaseURL + "?" + q.Encode()
}
