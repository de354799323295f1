package messaging

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Error() error                   { return t.err }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// fakeClient records calls; methods it does not override panic through the
// nil embedded interface.
type fakeClient struct {
	mqtt.Client
	err error

	published struct {
		topic    string
		qos      byte
		retained bool
		payload  any
	}
	subscribed struct {
		topic string
		qos   byte
		cb    mqtt.MessageHandler
	}
	quiesce uint
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload any) mqtt.Token {
	f.published.topic, f.published.qos, f.published.retained, f.published.payload = topic, qos, retained, payload
	return fakeToken{err: f.err}
}

func (f *fakeClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	f.subscribed.topic, f.subscribed.qos, f.subscribed.cb = topic, qos, cb
	return fakeToken{err: f.err}
}

func (f *fakeClient) Disconnect(quiesce uint) { f.quiesce = quiesce }

func TestPublish(t *testing.T) {
	fake := &fakeClient{}
	c := &Client{c: fake}

	require.NoError(t, c.Publish("sensors/commands", []byte(`{"command":"reboot"}`)))
	assert.Equal(t, "sensors/commands", fake.published.topic)
	assert.Equal(t, byte(0), fake.published.qos)
	assert.False(t, fake.published.retained)
	assert.Equal(t, []byte(`{"command":"reboot"}`), fake.published.payload)
}

func TestPublishReturnsTokenError(t *testing.T) {
	boom := errors.New("not connected")
	c := &Client{c: &fakeClient{err: boom}}
	assert.ErrorIs(t, c.Publish("sensors/commands", []byte("x")), boom)
}

func TestSubscribeDeliversMessages(t *testing.T) {
	fake := &fakeClient{}
	c := &Client{c: fake}

	var gotTopic string
	var gotPayload []byte
	require.NoError(t, c.Subscribe("sensors/+/readings", func(topic string, payload []byte) {
		gotTopic, gotPayload = topic, payload
	}))
	assert.Equal(t, "sensors/+/readings", fake.subscribed.topic)
	assert.Equal(t, byte(0), fake.subscribed.qos)
	require.NotNil(t, fake.subscribed.cb)

	fake.subscribed.cb(fake, fakeMessage{topic: "sensors/3/readings", payload: []byte(`{"value":1}`)})
	assert.Equal(t, "sensors/3/readings", gotTopic)
	assert.Equal(t, []byte(`{"value":1}`), gotPayload)
}

func TestSubscribeWrapsTokenError(t *testing.T) {
	boom := errors.New("not authorized")
	c := &Client{c: &fakeClient{err: boom}}

	err := c.Subscribe("sensors/+/readings", func(string, []byte) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "subscribe sensors/+/readings")
}

func TestClose(t *testing.T) {
	fake := &fakeClient{}
	(&Client{c: fake}).Close()
	assert.Equal(t, uint(quiesceMillis), fake.quiesce)
}
