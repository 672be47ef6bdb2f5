package resource

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"alcyxob/fitness-client/internal/domain"
)

var ErrGeocoderDisabled = errors.New("place search is not configured")

func (a *API) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	var l domain.Location
	if err := a.client.Get(ctx, "/locations/"+url.PathEscape(id), nil, &l); err != nil {
		return nil, a.fail("get location", err)
	}
	return &l, nil
}

// SearchPlaces runs a free-text search against the external geocoder
// (Nominatim-compatible JSON). Results without coordinates are dropped.
func (a *API) SearchPlaces(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if a.geocoder == nil {
		return nil, a.fail("search places", ErrGeocoderDisabled)
	}
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {strconv.Itoa(limit)},
	}
	var raw json.RawMessage
	if err := a.geocoder.Get(ctx, "/search", q, &raw); err != nil {
		return nil, a.fail("search places", err)
	}

	var places []domain.Place
	gjson.ParseBytes(raw).ForEach(func(_, item gjson.Result) bool {
		lat, lon := item.Get("lat"), item.Get("lon")
		if !lat.Exists() || !lon.Exists() {
			return true
		}
		places = append(places, domain.Place{
			Name: item.Get("display_name").String(),
			Lat:  lat.Float(),
			Lon:  lon.Float(),
		})
		return true
	})
	return places, nil
}
