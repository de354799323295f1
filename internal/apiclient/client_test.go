package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	var submitted SubmitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "GET /collection_status":
			_, _ = w.Write([]byte(`{"enabled":false,"interval":12}`))
		case "GET /get_sensors":
			_, _ = w.Write([]byte(`[{"id":1,"name":"temp1","type":"temperature","location":null}]`))
		case "POST /register_sensor":
			_, _ = w.Write([]byte(`{"message":"ok","sensor_id":4}`))
		case "POST /submit_data":
			_ = json.NewDecoder(r.Body).Decode(&submitted)
			if submitted.SensorID != 4 {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"detail":"sensor not found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"message":"ok","data_id":9}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := context.Background()

	st, err := c.CollectionStatus(ctx)
	require.NoError(t, err)
	assert.False(t, st.Enabled)
	assert.Equal(t, 12, st.Interval)

	sensors, err := c.Sensors(ctx)
	require.NoError(t, err)
	require.Len(t, sensors, 1)
	assert.Equal(t, "temp1", sensors[0].Name)

	id, err := c.RegisterSensor(ctx, "temp2", "temperature")
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	dataID, err := c.SubmitReading(ctx, SubmitRequest{SensorID: 4, DataType: "C", Value: 1.5, Timestamp: "2025-01-01T00:00:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), dataID)
	assert.Equal(t, 1.5, submitted.Value)

	_, err = c.SubmitReading(ctx, SubmitRequest{SensorID: 5})
	assert.ErrorContains(t, err, "sensor not found")
}
