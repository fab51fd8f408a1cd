package checker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emiller/permitwatch/internal/availability"
	"github.com/emiller/permitwatch/internal/recreation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// newTestService runs a fake recreation.gov serving one permit with one
// division and two open June dates, and counts metadata fetches.
func newTestService(t *testing.T) (*httptest.Server, *recreation.Client, *atomic.Int32) {
	t.Helper()

	var infoCalls atomic.Int32
	mux := http.NewServeMux()

	mux.HandleFunc("/permits/233393/availability/month", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start_date") != "2022-06-01T00:00:00.000Z" {
			_, _ = w.Write([]byte(`{"payload": {"availability": {}}}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"payload": {
				"availability": {
					"282": {
						"date_availability": {
							"2022-06-22T00:00:00Z": {"remaining": 3, "total": 6},
							"2022-06-23T00:00:00Z": {"remaining": 1, "total": 6}
						}
					}
				}
			}
		}`))
	})

	mux.HandleFunc("/permitcontent/233393", func(w http.ResponseWriter, r *http.Request) {
		infoCalls.Add(1)
		_, _ = w.Write([]byte(`{
			"payload": {
				"name": "Some River Permit",
				"divisions": {"282": {"name": "Desolation-Gray Canyons"}}
			}
		}`))
	})

	ts := httptest.NewServer(mux)
	client := recreation.New(
		recreation.WithBaseURL(ts.URL),
		recreation.WithClient(ts.Client()),
	)
	return ts, client, &infoCalls
}

func TestRun_HumanOutput(t *testing.T) {
	ts, client, _ := newTestService(t)
	defer ts.Close()

	chk := New(client, nil, testLogger(), 2)

	out, hasAvailabilities, err := chk.Run(context.Background(), []int{233393}, Options{
		StartDate: mustDate(t, "2022-06-01"),
		EndDate:   mustDate(t, "2022-07-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasAvailabilities {
		t.Error("expected availability flag set")
	}

	expected := strings.Join([]string{
		"there are permits available from 2022-06-01 to 2022-07-01!!!",
		"🚣 Some River Permit (233393): 1 division(s) with availability out of 1 division(s)",
		"  * 2022-06-22: 3/6 permits remaining",
		"  * 2022-06-23: 1/6 permits remaining",
	}, "\n")
	if out != expected {
		t.Errorf("unexpected output:\ngot:\n%s\nwant:\n%s", out, expected)
	}
}

func TestRun_JSONOutput(t *testing.T) {
	ts, client, _ := newTestService(t)
	defer ts.Close()

	chk := New(client, nil, testLogger(), 2)

	out, hasAvailabilities, err := chk.Run(context.Background(), []int{233393}, Options{
		StartDate:  mustDate(t, "2022-06-01"),
		EndDate:    mustDate(t, "2022-07-01"),
		JSONOutput: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasAvailabilities {
		t.Error("expected availability flag set")
	}

	var decoded map[string]map[string]struct {
		Name  string                          `json:"name"`
		Dates []availability.DateAvailability `json:"dates"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded["233393"]["282"].Dates) != 2 {
		t.Errorf("expected 2 dates in JSON output, got %v", decoded)
	}
}

func TestRun_MinRemainingThreshold(t *testing.T) {
	ts, client, _ := newTestService(t)
	defer ts.Close()

	chk := New(client, nil, testLogger(), 2)

	out, _, err := chk.Run(context.Background(), []int{233393}, Options{
		StartDate:    mustDate(t, "2022-06-01"),
		EndDate:      mustDate(t, "2022-07-01"),
		MinRemaining: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "2022-06-23") {
		t.Errorf("expected the 1-remaining date filtered out, got:\n%s", out)
	}
	if !strings.Contains(out, "2022-06-22") {
		t.Errorf("expected the 3-remaining date kept, got:\n%s", out)
	}
}

func TestRun_FetchFailureAbortsRun(t *testing.T) {
	ts, client, _ := newTestService(t)
	defer ts.Close()

	chk := New(client, nil, testLogger(), 2)

	// Permit 999 is not served; the run must fail, not skip.
	_, _, err := chk.Run(context.Background(), []int{999}, Options{
		StartDate: mustDate(t, "2022-06-01"),
		EndDate:   mustDate(t, "2022-07-01"),
	})
	if err == nil {
		t.Fatal("expected error for unknown permit")
	}
}

// --- metadata cache ---

type fakeCache struct {
	entries map[int]*availability.PermitInfo
}

func (c *fakeCache) Get(_ context.Context, permitID int) (*availability.PermitInfo, error) {
	return c.entries[permitID], nil
}

func (c *fakeCache) Put(_ context.Context, info *availability.PermitInfo) error {
	c.entries[info.ID] = info
	return nil
}

func TestRun_CacheSkipsMetadataFetch(t *testing.T) {
	ts, client, infoCalls := newTestService(t)
	defer ts.Close()

	cache := &fakeCache{entries: make(map[int]*availability.PermitInfo)}
	chk := New(client, cache, testLogger(), 2)

	opts := Options{
		StartDate: mustDate(t, "2022-06-01"),
		EndDate:   mustDate(t, "2022-07-01"),
	}

	for i := 0; i < 2; i++ {
		out, _, err := chk.Run(context.Background(), []int{233393}, opts)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if !strings.Contains(out, "Some River Permit") {
			t.Errorf("run %d: expected resolved permit name, got:\n%s", i, out)
		}
	}

	if got := infoCalls.Load(); got != 1 {
		t.Errorf("expected exactly 1 metadata fetch across runs, got %d", got)
	}
}
