package builtin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"

	"mars-assistant-go/internal/domain/skills"
	platformerrors "mars-assistant-go/internal/platform/errors"
)

// weatherClient queries the Open-Meteo APIs, which need no key. Geocoding
// and forecasts live on different hosts.
type weatherClient struct {
	forecastURL  string
	geocodingURL string
	client       *http.Client
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// weatherCodes maps the WMO interpretation codes Open-Meteo returns to
// spoken descriptions. Unlisted codes fall back to a generic phrase.
var weatherCodes = map[int]string{
	0: "clear skies", 1: "mostly clear skies", 2: "partly cloudy skies",
	3: "overcast skies", 45: "fog", 48: "freezing fog",
	51: "light drizzle", 53: "drizzle", 55: "heavy drizzle",
	61: "light rain", 63: "rain", 65: "heavy rain",
	71: "light snow", 73: "snow", 75: "heavy snow",
	80: "rain showers", 81: "rain showers", 82: "violent rain showers",
	95: "a thunderstorm", 96: "a thunderstorm with hail", 99: "a severe thunderstorm with hail",
}

func (w *weatherClient) fetch(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "building request", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "calling weather API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return platformerrors.New(platformerrors.KindSkill, "weather.fetch",
			fmt.Sprintf("weather API returned status %d", resp.StatusCode))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "reading response", err)
	}
	if err := sonic.Unmarshal(payload, out); err != nil {
		return platformerrors.Wrap(platformerrors.KindSkill, "weather.fetch", "decoding response", err)
	}
	return nil
}

func (w *weatherClient) report(ctx context.Context, city string) (string, error) {
	geocodeURL := fmt.Sprintf("%s/v1/search?name=%s&count=1", w.geocodingURL, url.QueryEscape(city))
	var geo geocodeResponse
	if err := w.fetch(ctx, geocodeURL, &geo); err != nil {
		return "", err
	}
	if len(geo.Results) == 0 {
		return fmt.Sprintf("I couldn't find a place called %q.", city), nil
	}

	place := geo.Results[0]
	forecastURL := fmt.Sprintf("%s/v1/forecast?latitude=%f&longitude=%f&current_weather=true",
		w.forecastURL, place.Latitude, place.Longitude)
	var forecast forecastResponse
	if err := w.fetch(ctx, forecastURL, &forecast); err != nil {
		return "", err
	}

	conditions, ok := weatherCodes[forecast.CurrentWeather.WeatherCode]
	if !ok {
		conditions = "mixed conditions"
	}
	return fmt.Sprintf("In %s it is %.0f degrees with %s and wind at %.0f km/h.",
		place.Name, forecast.CurrentWeather.Temperature, conditions,
		forecast.CurrentWeather.WindSpeed), nil
}

// Weather looks up current conditions for a named city.
func Weather(forecastURL, geocodingURL string) skills.Skill {
	client := &weatherClient{
		forecastURL:  forecastURL,
		geocodingURL: geocodingURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}

	return skills.Skill{
		Name:        "get_weather",
		Description: "Get the current weather for a city.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "The city to look up, e.g. 'Berlin'.",
				},
			},
			"required": []string{"city"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			city, _ := args["city"].(string)
			if city == "" {
				return "I need a city name to look up the weather.", nil
			}
			return client.report(ctx, city)
		},
	}
}
