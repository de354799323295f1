package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/cloud"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/config"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/iot-sensor-collector/internal/http"
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

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}

	var opts []service.Option
	if config.UseCloudServices() {
		archive, err := cloud.NewS3Archive(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			log.Fatal().Err(err).Msg("s3 archive init failed")
		}
		opts = append(opts, service.WithArchiver(archive))
		log.Info().Str("bucket", config.S3Bucket()).Msg("archiving deleted readings to s3")
	}
	if config.MQTTCommandsEnabled() {
		mq, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID()+"-api")
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect")
		}
		defer mq.Close()
		opts = append(opts, service.WithPublisher(mq, config.MQTTCommandTopic()))
	}

	svcs := service.New(db, opts...)
	app := httpHandlers.NewApp(svcs, config.CORSOrigins())

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("driver", config.DBDriver()).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
