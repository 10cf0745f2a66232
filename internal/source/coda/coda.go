// Package coda fetches event rows from a Coda.io table and maps them into
// canonical events.
package coda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stagesync/internal/event"
)

const defaultBaseURL = "https://coda.io/apis/v1"

// Client talks to the Coda REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
	duration   time.Duration
	logger     *zap.Logger
}

// NewClient creates a Coda client. duration is the fallback event length used
// when a row carries a start time but no end.
func NewClient(apiToken string, duration time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiToken:   apiToken,
		duration:   duration,
		logger:     logger,
	}
}

// Table describes one table in a Coda document.
type Table struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TableType string `json:"tableType"`
}

type tablesResponse struct {
	Items []Table `json:"items"`
}

type rowsResponse struct {
	Items         []codaRow `json:"items"`
	NextPageToken string    `json:"nextPageToken"`
}

type codaRow struct {
	Values map[string]any `json:"values"`
}

// ListTables returns the tables of a Coda document.
func (c *Client) ListTables(ctx context.Context, docID string) ([]Table, error) {
	u := fmt.Sprintf("%s/docs/%s/tables", c.baseURL, docID)

	var resp tablesResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tables from Coda: %w", err)
	}
	return resp.Items, nil
}

// FetchEvents pulls every row of the table, following page tokens until the
// response carries none, and maps each row into a canonical event. Rows that
// fail to map are logged and skipped; the remaining rows still convert.
func (c *Client) FetchEvents(ctx context.Context, docID, tableID string) ([]event.Event, error) {
	var events []event.Event
	pageToken := ""

	for {
		u := fmt.Sprintf("%s/docs/%s/tables/%s/rows?useColumnNames=true", c.baseURL, docID, tableID)
		if pageToken != "" {
			u += "&pageToken=" + url.QueryEscape(pageToken)
		}

		var resp rowsResponse
		if err := c.getJSON(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch rows from Coda: %w", err)
		}

		for _, row := range resp.Items {
			ev, err := mapRow(row.Values, c.duration)
			if err != nil {
				c.logger.Warn("skipping row due to parse error", zap.Error(err))
				continue
			}
			events = append(events, ev)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return events, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("coda API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// mapRow converts one Coda row, keyed by column name, into a canonical
// event. Rows carry a single "performanceDate" instant; when it includes a
// time of day the end time is derived by adding the fallback duration,
// wrapping past midnight without advancing the end date.
func mapRow(values map[string]any, duration time.Duration) (event.Event, error) {
	title, ok := stringValue(values, "Display")
	if !ok {
		return event.Event{}, &event.MissingFieldError{Field: "Display"}
	}

	rawDate, ok := stringValue(values, "performanceDate")
	if !ok {
		return event.Event{}, &event.MissingFieldError{Field: "performanceDate"}
	}
	startDate, startTime, err := event.ParseTemporal(rawDate)
	if err != nil {
		return event.Event{}, &event.InvalidTemporalError{Field: "performanceDate", Raw: rawDate, Err: err}
	}

	var endTime *event.TimeOfDay
	if startTime != nil {
		et := event.EndTimeAfter(startDate, *startTime, duration)
		endTime = &et
	}

	organization, _ := stringValue(values, "Organization")
	location, _ := stringValue(values, "venue")

	purchased := false
	if v, ok := stringValue(values, "Purchased"); ok {
		lower := strings.ToLower(v)
		purchased = lower == "yes" || lower == "true"
	}

	return event.Event{
		Title:        title,
		Description:  buildDescription(values),
		Location:     location,
		Organization: organization,
		Purchased:    purchased,
		StartDate:    startDate,
		EndDate:      startDate,
		StartTime:    startTime,
		EndTime:      endTime,
	}, nil
}

// buildDescription joins the optional descriptive columns with newlines,
// skipping absent ones. All absent yields an empty description.
func buildDescription(values map[string]any) string {
	var parts []string
	for _, key := range []string{"kenticoUrl", "artists", "works"} {
		if v, ok := stringValue(values, key); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

// stringValue reads a cell as a string. Coda cells are loosely typed; the
// supported scalar shapes are string, number, bool and null. Null and empty
// strings count as absent.
func stringValue(values map[string]any, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	case nil:
		return "", false
	default:
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}
