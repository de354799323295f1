package messaging

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout = 10 * time.Second
	quiesceMillis  = 250
)

// Client is a thin wrapper around a paho client. Messages are sent at
// QoS 0 and never retried.
type Client struct {
	c mqtt.Client
}

func Connect(broker, clientID string) (*Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Str("broker", broker).Msg("mqtt connection lost")
		})
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return &Client{c: client}, nil
}

func (c *Client) Publish(topic string, payload []byte) error {
	token := c.c.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Subscribe delivers every message on topic to handle. handle runs on the
// paho router goroutine.
func (c *Client) Subscribe(topic string, handle func(topic string, payload []byte)) error {
	cb := func(_ mqtt.Client, msg mqtt.Message) {
		handle(msg.Topic(), msg.Payload())
	}
	if token := c.c.Subscribe(topic, 0, cb); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	return nil
}

func (c *Client) Close() {
	c.c.Disconnect(quiesceMillis)
}
