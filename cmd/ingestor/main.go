package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/config"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/database"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/messaging"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogging()
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Connect(config.DBDriver(), config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}

	svcs := service.New(db)

	client, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID()+"-ingestor")
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Close()

	topic := config.MQTTReadingsTopic()
	handler := func(topic string, payload []byte) {
		if _, err := svcs.Readings.FromMQTT(ctx, topic, payload); err != nil {
			log.Error().Err(err).Msg("ingest failed")
		}
	}
	if err := client.Subscribe(topic, handler); err != nil {
		log.Fatal().Err(err).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("ingestor stopped")
}
