package broker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// Client publishes JSON messages under a topic prefix, e.g. "masjid/athan".
type Client struct {
	conn   mqtt.Client
	prefix string
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Connect dials the broker. The paho client reconnects on its own after a
// lost connection.
func Connect(brokerURL, clientID, prefix string) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	conn := mqtt.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(15*time.Second) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", brokerURL, err)
	}

	log.Info().Str("broker", brokerURL).Str("client_id", clientID).Msg("MQTT client initialized")
	return &Client{conn: conn, prefix: strings.Trim(prefix, "/")}, nil
}

// Topic joins the prefix and name.
func (c *Client) Topic(name string) string {
	return joinTopic(c.prefix, name)
}

// Publish marshals payload to JSON and sends it at QoS 1. Retained messages
// are delivered to screens that subscribe later, e.g. after being switched on.
func (c *Client) Publish(name string, payload any, retained bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", name, err)
	}

	topic := c.Topic(name)
	token := c.conn.Publish(topic, 1, retained, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("bytes", len(body)).Msg("published MQTT message")
	return nil
}

func (c *Client) Close() {
	c.conn.Disconnect(250)
	log.Info().Msg("MQTT client disconnected")
}

func joinTopic(prefix, name string) string {
	name = strings.Trim(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
