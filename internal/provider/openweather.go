package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/httputil"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/metrics"
	"github.com/OB1-WAN-KENOBI/weather-dashboard/internal/models"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// errRateLimited marks the one retryable status; everything else is permanent.
var errRateLimited = &Error{Kind: KindNetwork, Message: "rate limited"}

// OpenWeather is the live weather provider client. Requests run through a
// circuit breaker and retry transparently on rate limiting; all other failures
// surface immediately with their classification.
type OpenWeather struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeather(apiKey string) *OpenWeather {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeather{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  httputil.NewClient(),
		circuit: cb,
	}
}

type conditionEntry struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type mainEntry struct {
	Temp      float64  `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *int64   `json:"humidity"`
	Pressure  *float64 `json:"pressure"`
}

type windEntry struct {
	Speed *float64 `json:"speed"`
}

type currentResponse struct {
	Name    string           `json:"name"`
	Dt      int64            `json:"dt"`
	Main    *mainEntry       `json:"main"`
	Weather []conditionEntry `json:"weather"`
	Wind    *windEntry       `json:"wind"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt      int64            `json:"dt"`
	Main    mainEntry        `json:"main"`
	Weather []conditionEntry `json:"weather"`
	Wind    *windEntry       `json:"wind"`
}

func (p *OpenWeather) FetchCurrent(ctx context.Context, loc models.Locator) (models.Current, error) {
	body, err := p.get(ctx, "/weather", p.query(loc))
	if err != nil {
		return models.Current{}, err
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Current{}, &Error{Kind: KindMalformed, Message: "decode current weather", Err: err}
	}
	if data.Main == nil {
		return models.Current{}, &Error{Kind: KindMalformed, Message: "current weather response missing main block"}
	}

	return models.Current{
		City:   data.Name,
		Sample: toSample(data.Dt, *data.Main, data.Weather, data.Wind),
	}, nil
}

func (p *OpenWeather) FetchForecast(ctx context.Context, loc models.Locator) (models.SampleSeries, error) {
	values := p.query(loc)
	values.Set("cnt", "40") // 3-hour cadence, roughly 5 days

	body, err := p.get(ctx, "/forecast", values)
	if err != nil {
		return nil, err
	}

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "decode forecast", Err: err}
	}
	if data.List == nil {
		return nil, &Error{Kind: KindMalformed, Message: "forecast response missing list"}
	}

	series := make(models.SampleSeries, 0, len(data.List))
	for _, item := range data.List {
		series = append(series, toSample(item.Dt, item.Main, item.Weather, item.Wind))
	}
	return series, nil
}

func (p *OpenWeather) query(loc models.Locator) url.Values {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	if loc.Coords {
		values.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	} else {
		values.Set("q", loc.City)
	}
	return values
}

func (p *OpenWeather) get(ctx context.Context, path string, values url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
	start := time.Now()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(&Error{Kind: KindNetwork, Message: "build request", Err: err})
		}

		result, err := p.circuit.Execute(func() (interface{}, error) {
			return p.do(req, path)
		})
		if err != nil {
			if errors.Is(err, errRateLimited) {
				return err // retryable
			}
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(&Error{Kind: KindNetwork, Message: "provider circuit open", Err: err})
			}
			return backoff.Permanent(err)
		}

		body = result.([]byte)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))

	status := "ok"
	if err != nil {
		status = KindOf(err).String()
	}
	metrics.ProviderCallsTotal.WithLabelValues(path, status).Inc()
	metrics.ProviderLatency.WithLabelValues(path).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return body, nil
}

// do performs one HTTP round trip and classifies the outcome. It runs inside
// the circuit breaker so rate limits and server errors count as failures.
func (p *OpenWeather) do(req *http.Request, path string) (interface{}, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "fetch " + path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindAuthFailure, Message: fmt.Sprintf("credential rejected: status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Message: "location not found"}
	case resp.StatusCode >= 500:
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("fetch %s: status %d", path, resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(resp.Body)
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("fetch %s: status %d: %s", path, resp.StatusCode, string(b))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "read body", Err: err}
	}
	return body, nil
}

func toSample(dt int64, main mainEntry, weather []conditionEntry, wind *windEntry) models.Sample {
	s := models.Sample{
		Time:        time.Unix(dt, 0).UTC(),
		TempC:       main.Temp,
		FeelsLikeC:  main.FeelsLike,
		Humidity:    main.Humidity,
		PressureHPa: main.Pressure,
	}
	if len(weather) > 0 {
		s.Condition = weather[0].Icon
		s.Description = weather[0].Description
	}
	if wind != nil {
		s.WindSpeedMS = wind.Speed
	}
	return s
}
