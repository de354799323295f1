package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/service"
)

// Client talks to the collector's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type SubmitRequest struct {
	SensorID  int64   `json:"sensor_id"`
	DataType  string  `json:"data_type"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

func (c *Client) CollectionStatus(ctx context.Context) (service.CollectionSettings, error) {
	var out service.CollectionSettings
	err := c.do(ctx, http.MethodGet, "/collection_status", nil, &out)
	return out, err
}

func (c *Client) Sensors(ctx context.Context) ([]domain.Sensor, error) {
	var out []domain.Sensor
	err := c.do(ctx, http.MethodGet, "/get_sensors", nil, &out)
	return out, err
}

func (c *Client) RegisterSensor(ctx context.Context, name, sensorType string) (int64, error) {
	var out struct {
		SensorID int64 `json:"sensor_id"`
	}
	in := map[string]string{"name": name, "type": sensorType}
	if err := c.do(ctx, http.MethodPost, "/register_sensor", in, &out); err != nil {
		return 0, err
	}
	return out.SensorID, nil
}

func (c *Client) SubmitReading(ctx context.Context, r SubmitRequest) (int64, error) {
	var out struct {
		DataID int64 `json:"data_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/submit_data", r, &out); err != nil {
		return 0, err
	}
	return out.DataID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s failed: %s %s", method, path, resp.Status, e.Detail)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
