package batch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YONSEI-TPLAB/map-api/pkg/flatten"
	"github.com/YONSEI-TPLAB/map-api/pkg/naver"
	"github.com/YONSEI-TPLAB/map-api/pkg/params"
	"github.com/YONSEI-TPLAB/map-api/pkg/table"
)

// drivingServer answers with a summary whose distance encodes the start
// longitude, returns {} for start longitude 0 and 500 for longitude 500.
func drivingServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		lon := strings.Split(r.URL.Query().Get("start"), ",")[0]
		switch lon {
		case "0.0":
			w.Write([]byte(`{"code": 1}`))
			return
		case "500.0":
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"currentDateTime": "2024-01-01T00:00:00+09:00", "route": {"trafast": [{"summary": {"distance": %s, "duration": 60000, "tollFare": 0, "taxiFare": 4800, "fuelPrice": 1500}}]}}`,
			strings.TrimSuffix(lon, ".0"))
	}))
	t.Cleanup(server.Close)
	return server
}

func drivingInput(t *testing.T, startLongs ...string) *table.Table {
	t.Helper()
	tbl := table.New("name", "startLat", "startLong", "goalLat", "goalLong")
	for i, lon := range startLongs {
		require.NoError(t, tbl.Append(fmt.Sprintf("r%d", i), "37.5", lon, "37.6", "127.1"))
	}
	return tbl
}

func newDrivingJob(t *testing.T, server *httptest.Server) *DrivingJob {
	t.Helper()
	client := naver.NewClient(naver.Credentials{KeyID: "id", Key: "key"}, naver.WithBaseURLs(server.URL, server.URL))
	job, err := NewDrivingJob(client, params.NewBuilder(params.DefaultColumns()), 5, []string{"trafast"})
	require.NoError(t, err)
	return job
}

func TestRun_DrivingMergesOntoInput(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	input := drivingInput(t, "127", "128", "0")
	out, stats, err := NewRunner().Run(context.Background(), job, input)
	require.NoError(t, err)

	assert.Equal(t, int32(3), hits)
	assert.Equal(t, Stats{Rows: 3, Success: 2, Empty: 1}, stats)

	assert.Equal(t, []string{
		"name", "startLat", "startLong", "goalLat", "goalLong",
		"timestamp", "trafastDistance", "trafastDuration", "trafastTollFare", "trafastTaxiFare", "trafastFuelPrice",
	}, out.Columns)
	require.Equal(t, 3, out.Len())

	// input order preserved
	for i, name := range []string{"r0", "r1", "r2"} {
		got, _ := out.Get(i, "name")
		assert.Equal(t, name, got)
	}
	d0, _ := out.Get(0, "trafastDistance")
	d1, _ := out.Get(1, "trafastDistance")
	assert.Equal(t, int64(127), d0)
	assert.Equal(t, int64(128), d1)

	// empty response leaves null result columns
	ts, _ := out.Get(2, "timestamp")
	assert.Nil(t, ts)

	// input untouched
	assert.Equal(t, 5, len(input.Columns))
}

func TestRun_DuplicateRowsRequestTwiceButOutputOnce(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	input := table.New("startLat", "startLong", "goalLat", "goalLong")
	require.NoError(t, input.Append("37.5", "127", "37.6", "127.1"))
	require.NoError(t, input.Append("37.5", "127", "37.6", "127.1"))

	out, _, err := NewRunner().Run(context.Background(), job, input)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits, "every input row issues its own request")
	assert.Equal(t, 1, out.Len(), "identical output rows are removed")
}

func TestRun_Idempotent(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))
	input := drivingInput(t, "127", "127", "128", "0")

	first, _, err := NewRunner().Run(context.Background(), job, input)
	require.NoError(t, err)
	second, _, err := NewRunner().Run(context.Background(), job, input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assertNoDuplicateRows(t, first)
}

func TestRun_StrictAbortsOnRequestError(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	_, stats, err := NewRunner().Run(context.Background(), job, drivingInput(t, "127", "500", "128"))
	require.Error(t, err)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 1, rowErr.Row)

	var apiErr *naver.APIRequestError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	assert.Equal(t, int32(2), hits, "no request after the failing row")
	assert.Equal(t, 1, stats.Failed)
}

func TestRun_IsolateKeepsGoing(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	var progress []int
	runner := NewRunner(WithPolicy(Isolate), WithProgress(func(done, total int) {
		assert.Equal(t, 3, total)
		progress = append(progress, done)
	}))

	out, stats, err := runner.Run(context.Background(), job, drivingInput(t, "127", "500", "128"))
	require.NoError(t, err)

	assert.Equal(t, int32(3), hits)
	assert.Equal(t, Stats{Rows: 3, Success: 2, Failed: 1}, stats)
	assert.Equal(t, []int{1, 2, 3}, progress)

	require.Equal(t, 3, out.Len())
	d, _ := out.Get(1, "trafastDistance")
	assert.Nil(t, d)
	d, _ = out.Get(2, "trafastDistance")
	assert.Equal(t, int64(128), d)
}

func TestRun_StrictAbortsOnBadRow(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	_, stats, err := NewRunner().Run(context.Background(), job, drivingInput(t, "127", "east", "128"))
	require.Error(t, err)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 1, rowErr.Row)
	assert.Equal(t, int32(1), hits, "no request for or after the bad row")
	assert.Equal(t, 1, stats.Failed)
}

func TestRun_IsolateLeavesBadRowEmpty(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	input := drivingInput(t, "127", "128")
	require.NoError(t, input.Append("r2", nil, "129", "37.6", "127.1"))

	out, stats, err := NewRunner(WithPolicy(Isolate)).Run(context.Background(), job, input)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits)
	assert.Equal(t, Stats{Rows: 3, Success: 2, Failed: 1}, stats)

	require.Equal(t, 3, out.Len())
	name, _ := out.Get(2, "name")
	assert.Equal(t, "r2", name)
	for _, col := range []string{"timestamp", "trafastDistance"} {
		v, _ := out.Get(2, col)
		assert.Nil(t, v, col)
	}
	d, _ := out.Get(1, "trafastDistance")
	assert.Equal(t, int64(128), d)
}

func TestRun_RejectsInputWithJoinKey(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	_, _, err := NewRunner().Run(context.Background(), job, table.New("params"))
	assert.Error(t, err)
}

func TestRun_CanceledContext(t *testing.T) {
	var hits int32
	job := newDrivingJob(t, drivingServer(t, &hits))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewRunner().Run(ctx, job, drivingInput(t, "127"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits)
}

func TestNewDrivingJob_InvalidWaypoints(t *testing.T) {
	client := naver.NewClient(naver.Credentials{})
	_, err := NewDrivingJob(client, params.NewBuilder(params.DefaultColumns()), 10, nil)
	assert.ErrorIs(t, err, naver.ErrInvalidWaypoints)

	job, err := NewDrivingJob(client, params.NewBuilder(params.DefaultColumns()), 15, nil)
	require.NoError(t, err)
	assert.Equal(t, params.DefaultOptions, job.Options)
}

const cityJSON = `{
	"currentDateTime": "2024-01-01T08:00:00",
	"status": "CITY",
	"context": {"currentDateTime": "2024-01-01T08:00:00", "serviceDay": {"name": "평일"}},
	"paths": [{"mode": "TIME", "type": "BUS", "legs": [{"steps": [
		{"type": "WALKING", "routes": [], "stations": []},
		{"type": "BUS", "routes": [{"name": "146", "type": {"name": "간선"}}], "stations": [{}, {}]}
	]}]}],
	"staticPaths": []
}`

func TestRun_TransitExpandsLegsAndSkipsIntercity(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Query().Get("goal") == "129.0,35.1" {
			w.Write([]byte(`{"currentDateTime": "2024-01-01T08:00:00", "status": "INTERCITY"}`))
			return
		}
		w.Write([]byte(cityJSON))
	}))
	defer server.Close()

	client := naver.NewClient(naver.Credentials{}, naver.WithBaseURLs(server.URL, server.URL))
	fixed := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	builder := params.NewBuilder(params.DefaultColumns()).WithClock(func() time.Time { return fixed })
	job := NewTransitJob(client, builder, "")

	input := table.New("startLat", "startLong", "goalLat", "goalLong")
	require.NoError(t, input.Append("37.5", "127.0", "37.6", "127.1"))
	require.NoError(t, input.Append("37.5", "127.0", "35.1", "129.0"))

	out, stats, err := NewRunner().Run(context.Background(), job, input)
	require.NoError(t, err)

	assert.Equal(t, Stats{Rows: 2, Success: 1, Unsupported: 1}, stats)
	assert.Equal(t, 4+len(flatten.TransitColumns)-1, len(out.Columns))
	require.Equal(t, 3, out.Len(), "two legs for the CITY row, one null row for INTERCITY")

	for i, want := range []any{0, 1, nil} {
		got, _ := out.Get(i, "legIndex")
		assert.Equal(t, want, got)
	}
	line, _ := out.Get(1, "legLine")
	assert.Equal(t, "146", line)
	assertNoDuplicateRows(t, out)
}

func TestRun_DepartureTimeStampedPerRequest(t *testing.T) {
	var hits int32
	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Query().Get("departureTime"))
		mu.Unlock()
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(cityJSON))
	}))
	defer server.Close()

	// The clock only moves once a request has been served
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	clock := func() time.Time {
		return base.Add(time.Duration(atomic.LoadInt32(&hits)) * time.Minute)
	}

	client := naver.NewClient(naver.Credentials{}, naver.WithBaseURLs(server.URL, server.URL))
	job := NewTransitJob(client, params.NewBuilder(params.DefaultColumns()).WithClock(clock), "")

	input := table.New("startLat", "startLong", "goalLat", "goalLong")
	for i := 0; i < 3; i++ {
		require.NoError(t, input.Append("37.5", "127.0", "37.6", fmt.Sprintf("127.%d", i+1)))
	}

	_, stats, err := NewRunner().Run(context.Background(), job, input)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Success)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"2024-01-01T08:00:00",
		"2024-01-01T08:01:00",
		"2024-01-01T08:02:00",
	}, seen)
}

func assertNoDuplicateRows(t *testing.T, tbl *table.Table) {
	t.Helper()
	seen := make(map[string]bool)
	for _, row := range tbl.Rows {
		parts := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				parts[i] = "<nil>"
			} else {
				parts[i] = table.Format(v)
			}
		}
		k := strings.Join(parts, "|")
		assert.False(t, seen[k], "duplicate row %v", row)
		seen[k] = true
	}
}
