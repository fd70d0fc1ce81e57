package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()

	s, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		t.Fatalf("new nats server: %v", err)
	}

	go s.Start()
	if !s.ReadyForConnections(5 * time.Second) {
		s.Shutdown()
		t.Fatal("nats server not ready")
	}

	t.Cleanup(func() {
		s.Shutdown()
		s.WaitForShutdown()
	})

	return s
}

func TestNATSPublisher_Subject(t *testing.T) {
	p := NewNATSPublisherWithConn(nil, "")
	e := sampleEvent()
	assert.Equal(t, "foundira.match.lost", p.Subject(e))

	e.TargetCategory = matching.CategoryFound
	assert.Equal(t, "foundira.match.found", p.Subject(e))

	e.TargetCategory = ""
	assert.Equal(t, "foundira.match.unknown", p.Subject(e))

	assert.Equal(t, "campus.match.lost", NewNATSPublisherWithConn(nil, "campus").Subject(sampleEvent()))
}

func TestNATSPublisher_PublishesJSON(t *testing.T) {
	s := runNATSServer(t)

	sub, err := nats.Connect(s.ClientURL())
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	msgs := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("foundira.match.>", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	pub, err := NewNATSPublisher(s.ClientURL(), "foundira")
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	require.NoError(t, pub.NotifyMatch(context.Background(), sampleEvent()))

	select {
	case msg := <-msgs:
		assert.Equal(t, "foundira.match.lost", msg.Subject)
		var got MatchEvent
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "lost-1", got.TargetID)
		assert.Equal(t, 85, got.Score)
		assert.Equal(t, []string{"Category match", "Title similarity"}, got.Reasons)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for match event")
	}
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	s := runNATSServer(t)
	pub, err := NewNATSPublisher(s.ClientURL(), "foundira")
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.NotifyMatch(ctx, sampleEvent()), context.Canceled)
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "foundira")
	assert.ErrorContains(t, err, "connect to nats")
}
