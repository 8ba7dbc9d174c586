package publish

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/shaunagostinho/nmeatab/internal/nmea"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent []published
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: c.err}
}

const rmc = "$GPRMC,225446,A,4916.45,N,12311.12,W,000.5,054.7,191194,020.3,E*68"

func rmcBatch(t *testing.T) *nmea.Batch {
	t.Helper()
	b, n := nmea.DecodeBatch([]string{rmc, rmc}, nmea.TypeRMC)
	if n != 2 || b.Failed != 0 {
		t.Fatalf("decoded %d, failed %d", n, b.Failed)
	}
	return b
}

func TestPublishBatch(t *testing.T) {
	fc := &fakeClient{}
	p := &Publisher{cfg: Config{Topic: "nmeatab/", QoS: 1, Retained: true}, client: fc}

	n, err := p.PublishBatch(rmcBatch(t))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if n != 2 || len(fc.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d/%d", n, len(fc.sent))
	}
	if fc.sent[0].topic != "nmeatab/rmc" || fc.sent[0].qos != 1 || !fc.sent[0].retained {
		t.Fatalf("unexpected publish: %+v", fc.sent[0])
	}

	var m Message
	if err := json.Unmarshal(fc.sent[1].payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Mode != "RMC" || m.Seq != 1 {
		t.Fatalf("unexpected message: %+v", m)
	}
	if len(m.Columns) != len(m.Values) || m.Columns[0] != "utc_time" {
		t.Fatalf("columns/values mismatch: %+v", m)
	}
}

func TestPublishBatch_Error(t *testing.T) {
	fc := &fakeClient{err: errors.New("broker gone")}
	p := &Publisher{cfg: Config{Topic: "x"}, client: fc}
	n, err := p.PublishBatch(rmcBatch(t))
	if err == nil || n != 0 {
		t.Fatalf("expected error on first publish, got n=%d err=%v", n, err)
	}
}

func TestMessages_Empty(t *testing.T) {
	if msgs := Messages(nil); msgs != nil {
		t.Fatalf("expected no messages, got %v", msgs)
	}
}

func TestTopic_Default(t *testing.T) {
	if got := Topic("", nmea.TypeGSV); got != "nmea/gsv" {
		t.Fatalf("got %q", got)
	}
}
