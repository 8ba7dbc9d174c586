// Package publish sends decoded rows to an MQTT broker, one message per row.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

// Config holds MQTT publisher configuration.
type Config struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Broker   string `yaml:"broker" json:"broker"`
	ClientID string `yaml:"client_id" json:"clientId"`
	Topic    string `yaml:"topic" json:"topic"`
	QoS      byte   `yaml:"qos" json:"qos"`
	Retained bool   `yaml:"retained" json:"retained"`
}

// Message is the JSON payload published for a single row.
type Message struct {
	Mode    string   `json:"mode"`
	Seq     int      `json:"seq"`
	Columns []string `json:"columns"`
	Values  []string `json:"values"`
}

// client is the subset of mqtt.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher publishes batches to <topic>/<mode>.
type Publisher struct {
	cfg    Config
	client client
	conn   mqtt.Client
}

const publishTimeout = 5 * time.Second

// Connect opens a connection to cfg.Broker.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("publish: no broker configured")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "nmeatab"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID)

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("publish: connect %s: %w", cfg.Broker, token.Error())
	}
	log.Printf("[mqtt] Connected to %s as %s", cfg.Broker, cfg.ClientID)
	return &Publisher{cfg: cfg, client: c, conn: c}, nil
}

// Topic returns the topic batches of type t are published on.
func (p *Publisher) Topic(t nmea.Type) string {
	return Topic(p.cfg.Topic, t)
}

// Topic joins a base topic and the mode name.
func Topic(base string, t nmea.Type) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = "nmea"
	}
	return base + "/" + strings.ToLower(t.String())
}

// Messages builds one message per row of b.
func Messages(b *nmea.Batch) []Message {
	if b.Empty() {
		return nil
	}
	columns := []string(b.Schema())
	rows := b.Rows()
	out := make([]Message, len(rows))
	for i, row := range rows {
		out[i] = Message{
			Mode:    b.Type.String(),
			Seq:     i,
			Columns: columns,
			Values:  row,
		}
	}
	return out
}

// PublishBatch publishes every row of b and returns the number sent.
func (p *Publisher) PublishBatch(b *nmea.Batch) (int, error) {
	msgs := Messages(b)
	if len(msgs) == 0 {
		return 0, nil
	}
	topic := p.Topic(b.Type)
	for i, m := range msgs {
		payload, err := json.Marshal(m)
		if err != nil {
			return i, err
		}
		token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retained, payload)
		if !token.WaitTimeout(publishTimeout) {
			return i, fmt.Errorf("publish: %s: timed out", topic)
		}
		if err := token.Error(); err != nil {
			return i, fmt.Errorf("publish: %s: %w", topic, err)
		}
	}
	log.Printf("[mqtt] Published %d %s rows to %s", len(msgs), b.Type, topic)
	return len(msgs), nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Disconnect(250)
	}
}
