package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/apiclient"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/config"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/messaging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulator",
		Short: "Publish synthetic sensor readings",
		Long: "Publishes random readings for one sensor, over MQTT or HTTP. " +
			"The collector's /collection_status decides whether and how often to send.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			config.SetupLogging()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}
	f := cmd.Flags()
	f.Int64("sensor-id", 0, "sensor to publish for; 0 registers a new sensor")
	f.String("data-type", "temperature", "data_type of the readings")
	f.Int("count", 100, "number of readings to send; 0 runs until interrupted")
	f.String("transport", "mqtt", "mqtt or http")
	f.String("api-url", "", "collector base URL (defaults to API_URL)")
	_ = viper.BindPFlag("SIM_SENSOR_ID", f.Lookup("sensor-id"))
	_ = viper.BindPFlag("SIM_DATA_TYPE", f.Lookup("data-type"))
	_ = viper.BindPFlag("SIM_COUNT", f.Lookup("count"))
	_ = viper.BindPFlag("SIM_TRANSPORT", f.Lookup("transport"))
	_ = viper.BindPFlag("SIM_API_URL", f.Lookup("api-url"))
	return cmd
}

type sender func(ctx context.Context, r apiclient.SubmitRequest) error

func run(ctx context.Context) error {
	apiURL := viper.GetString("SIM_API_URL")
	if apiURL == "" {
		apiURL = config.APIURL()
	}
	api := apiclient.New(apiURL)

	sensorID := viper.GetInt64("SIM_SENSOR_ID")
	if sensorID == 0 {
		id, err := api.RegisterSensor(ctx, "simulated-"+viper.GetString("SIM_DATA_TYPE"), viper.GetString("SIM_DATA_TYPE"))
		if err != nil {
			return fmt.Errorf("register sensor: %w", err)
		}
		sensorID = id
		log.Info().Int64("sensor_id", id).Msg("registered simulated sensor")
	}

	send, closeFn, err := newSender(api)
	if err != nil {
		return err
	}
	defer closeFn()

	count := viper.GetInt("SIM_COUNT")
	for sent := 0; count == 0 || sent < count; {
		settings, err := api.CollectionStatus(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("collection status unavailable; using defaults")
			settings.Enabled, settings.Interval = true, 5
		}
		if settings.Enabled {
			r := apiclient.SubmitRequest{
				SensorID:  sensorID,
				DataType:  viper.GetString("SIM_DATA_TYPE"),
				Value:     20 + rand.Float64()*10,
				Timestamp: domain.FormatTimestamp(time.Now()),
			}
			if err := send(ctx, r); err != nil {
				log.Error().Err(err).Msg("send failed")
			} else {
				sent++
			}
		}
		select {
		case <-ctx.Done():
			log.Info().Int("sent", sent).Msg("simulation interrupted")
			return nil
		case <-time.After(time.Duration(settings.Interval) * time.Second):
		}
	}
	log.Info().Int("sent", count).Msg("simulation done")
	return nil
}

func newSender(api *apiclient.Client) (sender, func(), error) {
	switch viper.GetString("SIM_TRANSPORT") {
	case "http":
		return func(ctx context.Context, r apiclient.SubmitRequest) error {
			_, err := api.SubmitReading(ctx, r)
			return err
		}, func() {}, nil
	case "mqtt":
		client, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID()+"-simulator")
		if err != nil {
			return nil, nil, err
		}
		topic := config.MQTTReadingsTopic()
		return func(_ context.Context, r apiclient.SubmitRequest) error {
			payload, err := json.Marshal(r)
			if err != nil {
				return err
			}
			return client.Publish(topic, payload)
		}, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown transport %q", viper.GetString("SIM_TRANSPORT"))
}
