package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyo/sentra/internal/agent"
	"github.com/prasetyo/sentra/internal/api/handlers"
	"github.com/prasetyo/sentra/pkg/config"
	"github.com/prasetyo/sentra/pkg/logger"
)

const wsSampleCSV = `date,region,product,total_sales,target_daily,avg_7d_sales,delta_vs_target,delta_vs_yesterday,day_name,is_weekend
2026-08-25,Jakarta,Beverages,8000,10000,10000,-20.0,-2.0,Monday,false
`

func wsFixture(t *testing.T) *Hub {
	t.Helper()

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "daily_sales.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(wsSampleCSV), 0644))

	cfg := &config.Config{
		Data: config.DataConfig{Path: dataPath},
	}
	log := logger.NewWriter(io.Discard)
	return NewHub(agent.New(cfg, log), log)
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.Serve))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/metrics"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubSendsMetricsOnConnect(t *testing.T) {
	hub := wsFixture(t)
	conn := dialHub(t, hub)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var payload handlers.Metrics
	require.NoError(t, conn.ReadJSON(&payload))

	assert.Equal(t, "2026-08-25", payload.Date)
	assert.Equal(t, "CRITICAL", string(payload.OverallStatus))
	assert.Equal(t, 1, payload.CriticalCount)
}

func TestHubConcurrentBroadcasts(t *testing.T) {
	hub := wsFixture(t)
	conn := dialHub(t, hub)

	// Import notifications and the periodic tick broadcast from separate
	// goroutines; all writes to one connection must be serialized
	const senders = 4
	const perSender = 10

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Broadcast()
			}
		}()
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	// Initial connect payload plus every broadcast, all valid frames
	for i := 0; i < senders*perSender+1; i++ {
		var payload handlers.Metrics
		require.NoError(t, conn.ReadJSON(&payload))
		assert.Equal(t, "2026-08-25", payload.Date)
	}

	wg.Wait()
}

func TestHubDropsDisconnectedClient(t *testing.T) {
	hub := wsFixture(t)
	conn := dialHub(t, hub)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var payload handlers.Metrics
	require.NoError(t, conn.ReadJSON(&payload))

	conn.Close()

	// The read loop notices the close and deregisters the client
	require.Eventually(t, func() bool {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		return len(hub.clients) == 0
	}, 5*time.Second, 10*time.Millisecond)

	// Broadcasting with no clients left is a no-op
	hub.Broadcast()
}
