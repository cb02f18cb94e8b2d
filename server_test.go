package railtracker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/railtracker/config"
	"github.com/theoremus-urban-solutions/railtracker/estimate"
	"github.com/theoremus-urban-solutions/railtracker/route"
	"github.com/theoremus-urban-solutions/railtracker/sampler"
	"github.com/theoremus-urban-solutions/railtracker/session"
	"github.com/theoremus-urban-solutions/railtracker/siri"
	"github.com/theoremus-urban-solutions/railtracker/tracking"
)

var fixedNow = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, withPush bool) (*Server, *session.Session, *httptest.Server) {
	t.Helper()
	m, err := route.NewModel(
		[]route.Position{{Longitude: 0, Latitude: 0}, {Longitude: 0, Latitude: 1}},
		[]route.Waypoint{
			{Name: "North", Position: route.Position{Latitude: 1}},
			{Name: "South", Position: route.Position{}},
		},
	)
	require.NoError(t, err)
	sess := session.New(m, session.Config{Interval: time.Second, Estimate: estimate.DefaultConfig()})

	cfg := config.DefaultConfig()
	cfg.Publish.LineRef = "L1"
	cfg.Server.Port = 0
	var push *sampler.PushSource
	if withPush {
		push = sampler.NewPushSource()
	}
	srv := NewServer(&cfg, sess, push)
	srv.now = func() time.Time { return fixedNow }
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, sess, ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestHealth(t *testing.T) {
	_, sess, ts := newTestServer(t, false)
	resp, body := get(t, ts.URL+"/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h healthResponse
	require.NoError(t, json.Unmarshal(body, &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, sess.ID.String(), h.SessionID)
	assert.Zero(t, h.Samples)
}

func TestStations(t *testing.T) {
	_, _, ts := newTestServer(t, false)
	_, body := get(t, ts.URL+"/api/stations")

	var got stationsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "North", got.Selected)
	require.Len(t, got.Stations, 2)
	assert.Equal(t, "South", got.Stations[1].Name)
}

func TestSelect(t *testing.T) {
	_, sess, ts := newTestServer(t, false)

	resp := post(t, ts.URL+"/api/select?name=Nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "North", sess.Selected().Name)

	resp, _ = get(t, ts.URL+"/api/select?name=South")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = post(t, ts.URL+"/api/select?name=South", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "South", sess.Selected().Name)
}

func TestMetrics(t *testing.T) {
	_, sess, ts := newTestServer(t, false)
	sess.Record(tracking.Sample{Position: route.Position{Latitude: 0.5}, Time: fixedNow})

	_, body := get(t, ts.URL+"/api/metrics.json")
	var d Display
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "North", d.Station)
	assert.Equal(t, "55.60 km", d.Remaining)
	assert.Equal(t, estimate.SpeedDefault, d.SpeedSource)
	assert.True(t, d.Sampled)

	_, body = get(t, ts.URL+"/api/metrics.json?station=South")
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, "South", d.Station)
	assert.Equal(t, "North", sess.Selected().Name)

	resp, _ := get(t, ts.URL+"/api/metrics.json?station=Nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPosition(t *testing.T) {
	srv, _, ts := newTestServer(t, true)

	resp := post(t, ts.URL+"/api/position", `{"longitude":0,"latitude":0.25,"timestamp":1700000000000}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	got, err := srv.push.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.25, got.Position.Latitude)

	resp = post(t, ts.URL+"/api/position", `{"longitude":0,"latitude":120}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts.URL+"/api/position", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/position")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPosition_DisabledWithoutPushSource(t *testing.T) {
	_, _, ts := newTestServer(t, false)
	resp := post(t, ts.URL+"/api/position", `{"longitude":0,"latitude":0}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVehicleMonitoringJSON(t *testing.T) {
	_, sess, ts := newTestServer(t, false)
	sess.Record(tracking.Sample{Position: route.Position{Latitude: 0.5}, Time: fixedNow})

	resp, body := get(t, ts.URL+"/api/siri/vehicle-monitoring.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res siri.SiriResponse
	require.NoError(t, json.Unmarshal(body, &res))
	sd := res.Siri.ServiceDelivery
	assert.Equal(t, "RAILTRACKER", sd.ProducerRef)
	require.Len(t, sd.VehicleMonitoringDelivery, 1)
	require.Len(t, sd.VehicleMonitoringDelivery[0].VehicleActivity, 1)

	mvj := sd.VehicleMonitoringDelivery[0].VehicleActivity[0].MonitoredVehicleJourney
	assert.Equal(t, "L1", mvj.LineRef)
	assert.Equal(t, sess.ID.String(), mvj.VehicleRef)
	assert.True(t, mvj.Monitored)
	require.NotNil(t, mvj.VehicleLocation)
	require.NotNil(t, mvj.MonitoredCall)
	assert.Equal(t, "North", mvj.MonitoredCall.StopPointRef)
	require.NotNil(t, mvj.MonitoredCall.Extensions)
	assert.InDelta(t, 55598, mvj.MonitoredCall.Extensions.Distances.DistanceFromCall, 10)
}

func TestVehicleMonitoringXML(t *testing.T) {
	_, _, ts := newTestServer(t, false)
	resp, body := get(t, ts.URL+"/api/siri/vehicle-monitoring.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))

	xml := string(body)
	assert.Contains(t, xml, "<StopPointRef>North</StopPointRef>")
	assert.Contains(t, xml, "<Monitored>false</Monitored>")
	assert.Contains(t, xml, "<ProgressStatus>noProgress</ProgressStatus>")
	assert.NotContains(t, xml, "<VehicleLocation>")
}

func TestVehiclePositions(t *testing.T) {
	_, sess, ts := newTestServer(t, false)
	sess.Record(tracking.Sample{Position: route.Position{Latitude: 0.9999}, Time: fixedNow})

	resp, body := get(t, ts.URL+"/api/gtfsrt/vehicle-positions.pb")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed gtfsrtpb.FeedMessage
	require.NoError(t, proto.Unmarshal(body, &feed))
	require.Len(t, feed.GetEntity(), 1)
	vp := feed.GetEntity()[0].GetVehicle()
	assert.Equal(t, "North", vp.GetStopId())
	assert.Equal(t, gtfsrtpb.VehiclePosition_STOPPED_AT, vp.GetCurrentStatus())
	assert.InDelta(t, 0.9999, vp.GetPosition().GetLatitude(), 1e-4)
	assert.Equal(t, uint64(fixedNow.Unix()), vp.GetTimestamp())
}

func TestResponseCache_InvalidatedByUpdates(t *testing.T) {
	srv, sess, ts := newTestServer(t, false)

	_, first := get(t, ts.URL+"/api/siri/vehicle-monitoring.json")
	_, second := get(t, ts.URL+"/api/siri/vehicle-monitoring.json")
	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), srv.cache.Hits())

	sess.Record(tracking.Sample{Position: route.Position{Latitude: 0.5}, Time: fixedNow})
	_, third := get(t, ts.URL+"/api/siri/vehicle-monitoring.json")
	assert.NotEqual(t, first, third)
	assert.Equal(t, uint64(1), srv.cache.Hits())
}

func TestWebSocket_StreamsUpdates(t *testing.T) {
	srv, sess, ts := newTestServer(t, false)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var d Display
	require.NoError(t, conn.ReadJSON(&d))
	assert.Equal(t, "North", d.Station)
	assert.False(t, d.Sampled)

	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sess.Select("South"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&d))
	assert.Equal(t, "South", d.Station)

	conn.Close()
	require.Eventually(t, func() bool { return srv.hub.count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestShutdownBeforeListenAndServe(t *testing.T) {
	srv, _, _ := newTestServer(t, false)
	require.NoError(t, srv.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe kept running after Shutdown")
	}
}

func TestShutdownStopsListenAndServe(t *testing.T) {
	srv, _, _ := newTestServer(t, false)
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe did not return")
	}
}

func TestWebSocket_IdleReaderDoesNotStallRecording(t *testing.T) {
	srv, sess, ts := newTestServer(t, false)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// the client never reads, so its socket and send buffer fill up
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200000; i++ {
			sess.Record(tracking.Sample{Position: route.Position{Latitude: float64(i%1000) / 1000}})
		}
	}()
	select {
	case <-done:
	case <-time.After(20 * time.Second):
		t.Fatal("recording blocked behind a websocket client")
	}
	assert.Equal(t, uint64(200000), sess.Samples())
	require.Eventually(t, func() bool { return srv.hub.count() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestShutdown_ClosesWebSockets(t *testing.T) {
	srv, _, ts := newTestServer(t, false)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var d Display
	require.NoError(t, conn.ReadJSON(&d))
	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Zero(t, srv.hub.count())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
