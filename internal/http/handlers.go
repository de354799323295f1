package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/repository"
	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/service"
)

const rootMessage = "IoT Sensor Collector API is running!"

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(svcs *service.Services, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "iot-sensor-collector",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestLogger())
	if corsOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins}))
	}

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	Register(app, svcs)
	return app
}

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": rootMessage})
	})

	g := app.Group("/")

	g.Post("register_sensor", func(c *fiber.Ctx) error {
		var req struct {
			Name     string  `json:"name"`
			Type     string  `json:"type"`
			Location *string `json:"location"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fmt.Errorf("invalid body: %w", domain.ErrInvalidInput))
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Type) == "" {
			return writeError(c, fmt.Errorf("name and type are required: %w", domain.ErrInvalidInput))
		}
		id, err := svcs.Repos.RegisterSensor(c.UserContext(), req.Name, req.Type, req.Location)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Sensor registered successfully", "sensor_id": id})
	})

	g.Post("submit_data", func(c *fiber.Ctx) error {
		rd, err := service.ParseReading(c.Body())
		if err != nil {
			return writeError(c, err)
		}
		id, err := svcs.Readings.Submit(c.UserContext(), rd)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Sensor data submitted successfully", "data_id": id})
	})

	g.Get("get_sensor_data", func(c *fiber.Ctx) error {
		var f repository.ReadingFilter
		var err error
		if f.SensorID, err = optionalID(c, "sensor_id"); err != nil {
			return writeError(c, err)
		}
		if f.Start, err = optionalTime(c, "start"); err != nil {
			return writeError(c, err)
		}
		if f.End, err = optionalTime(c, "end"); err != nil {
			return writeError(c, err)
		}
		items, err := svcs.Repos.QueryReadings(c.UserContext(), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(items)
	})

	g.Get("latest_data", func(c *fiber.Ctx) error {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return writeError(c, fmt.Errorf("limit must be a non-negative integer: %w", domain.ErrInvalidInput))
			}
			limit = n
		}
		groups, err := svcs.Readings.Latest(c.UserContext(), limit)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(groups)
	})

	g.Get("get_sensors", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListSensors(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(items)
	})

	g.Delete("delete_data", func(c *fiber.Ctx) error {
		var req struct {
			SensorID int64   `json:"sensor_id"`
			DataIDs  []int64 `json:"data_ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fmt.Errorf("invalid body: %w", domain.ErrInvalidInput))
		}
		n, err := svcs.Repos.DeleteReadingsByID(c.UserContext(), req.SensorID, req.DataIDs)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":        "success",
			"deleted_count": n,
			"message":       fmt.Sprintf("Deleted %d data point(s) from sensor %d", n, req.SensorID),
		})
	})

	g.Delete("delete_data_range", func(c *fiber.Ctx) error {
		id, err := optionalID(c, "sensor_id")
		if err != nil {
			return writeError(c, err)
		}
		start, err := optionalTime(c, "start")
		if err != nil {
			return writeError(c, err)
		}
		end, err := optionalTime(c, "end")
		if err != nil {
			return writeError(c, err)
		}
		if id == nil || start == nil || end == nil {
			return writeError(c, fmt.Errorf("sensor_id, start and end are required: %w", domain.ErrInvalidInput))
		}
		n, err := svcs.Readings.DeleteByRange(c.UserContext(), *id, *start, *end)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":        "success",
			"deleted_count": n,
			"message": fmt.Sprintf("Deleted %d data point(s) from sensor %d between %s and %s",
				n, *id, domain.FormatTimestamp(*start), domain.FormatTimestamp(*end)),
		})
	})

	g.Delete("delete_sensor/:sensor_id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("sensor_id"), 10, 64)
		if err != nil {
			return writeError(c, fmt.Errorf("sensor_id must be an integer: %w", domain.ErrInvalidInput))
		}
		n, err := svcs.Readings.DeleteSensor(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":              "success",
			"deleted_data_points": n,
			"message":             fmt.Sprintf("Sensor %d and its data deleted", id),
		})
	})

	g.Get("system_status", func(c *fiber.Ctx) error {
		st, err := svcs.Status(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":     "ok",
			"sensors":    st.Sensors,
			"datapoints": st.Readings,
			"uptime":     st.Uptime.String(),
			"time":       st.Time.Format(time.RFC3339),
		})
	})

	registerDevices(g, svcs)
}

func registerDevices(g fiber.Router, svcs *service.Services) {
	g.Get("led_state", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"led": service.SwitchString(svcs.Devices.Get(service.LED))})
	})

	g.Post("led_state", func(c *fiber.Ctx) error {
		var req struct {
			State string `json:"state"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fmt.Errorf("invalid body: %w", domain.ErrInvalidInput))
		}
		on, err := service.ParseSwitch(req.State)
		if err != nil {
			return writeError(c, err)
		}
		svcs.Devices.Set(service.LED, on)
		return c.JSON(fiber.Map{"led": service.SwitchString(on)})
	})

	g.Post("send_command", func(c *fiber.Ctx) error {
		var req struct {
			SensorID int64  `json:"sensor_id"`
			Command  string `json:"command"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fmt.Errorf("invalid body: %w", domain.ErrInvalidInput))
		}
		ack, err := svcs.Commands.Send(req.SensorID, req.Command)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":    "acknowledged",
			"sensor_id": ack.SensorID,
			"command":   ack.Command,
			"published": ack.Published,
		})
	})

	g.Get("collection_status", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Collection.Get())
	})

	g.Post("collection_control", func(c *fiber.Ctx) error {
		var req struct {
			Enabled  *bool `json:"enabled"`
			Interval int   `json:"interval"`
		}
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fmt.Errorf("invalid body: %w", domain.ErrInvalidInput))
		}
		if req.Enabled == nil {
			return writeError(c, fmt.Errorf("enabled is required: %w", domain.ErrInvalidInput))
		}
		settings := service.CollectionSettings{Enabled: *req.Enabled, Interval: req.Interval}
		if err := svcs.Collection.Update(settings); err != nil {
			return writeError(c, err)
		}
		return c.JSON(svcs.Collection.Get())
	})
}

func optionalID(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", key, domain.ErrInvalidInput)
	}
	return &id, nil
}

func optionalTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := domain.ParseTimestamp(raw)
	if err != nil && strings.Contains(raw, " ") {
		// an unescaped "+01:00" offset arrives as " 01:00"
		t, err = domain.ParseTimestamp(strings.ReplaceAll(raw, " ", "+"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}
