package translateplus_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	translateplus "github.com/translateplus/translateplus-go"
	"github.com/translateplus/translateplus-go/translateplustest"
)

func collectUpdates(t *testing.T, updates <-chan translateplus.JobUpdate, n int) []translateplus.JobUpdate {
	t.Helper()
	var got []translateplus.JobUpdate
	for len(got) < n {
		select {
		case u := <-updates:
			got = append(got, u)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %d updates, want %d", len(got), n)
		}
	}
	return got
}

func TestJobMonitor_ReportsUntilCompleted(t *testing.T) {
	srv := translateplustest.NewServer(t, translateplustest.WithJobCompleteAfter(1))
	srv.AddJob("job-1", translateplus.JobStatusPending)
	srv.AddJob("job-2", translateplus.JobStatusFailed)
	client := newClient(t, srv)

	monitor, err := client.MonitorI18nJobs([]string{"job-1", "job-2"},
		translateplus.WithMonitorInterval(5*time.Millisecond),
		translateplus.WithMonitorMaxInterval(20*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(monitor.Unsubscribe)

	updates := make(chan translateplus.JobUpdate, 16)
	monitor.OnUpdate(func(u translateplus.JobUpdate) {
		updates <- u
	})

	select {
	case <-monitor.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not finish")
	}

	// job-1: processing, completed. job-2: failed.
	got := collectUpdates(t, updates, 3)

	final := map[string]translateplus.JobUpdate{}
	for _, u := range got {
		require.NoError(t, u.Err)
		if u.Terminal {
			final[u.JobID] = u
		}
	}
	assert.Equal(t, translateplus.JobStatusCompleted, final["job-1"].Status)
	assert.Equal(t, "job-1", final["job-1"].Result.String("job_id"))
	assert.Equal(t, translateplus.JobStatusFailed, final["job-2"].Status)
}

func TestJobMonitor_ReportsErrors(t *testing.T) {
	srv := translateplustest.NewServer(t)
	client := newClient(t, srv)

	monitor, err := client.MonitorI18nJobs([]string{"missing"},
		translateplus.WithMonitorInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(monitor.Unsubscribe)

	updates := make(chan translateplus.JobUpdate, 64)
	monitor.OnUpdate(func(u translateplus.JobUpdate) {
		select {
		case updates <- u:
		default:
		}
	})

	u := collectUpdates(t, updates, 1)[0]
	require.Error(t, u.Err)
	var apiErr *translateplus.APIError
	require.ErrorAs(t, u.Err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.False(t, u.Terminal)
}

func TestJobMonitor_UnsubscribeCallback(t *testing.T) {
	srv := translateplustest.NewServer(t)
	client := newClient(t, srv)

	// An unknown job reports an error on every poll.
	monitor, err := client.MonitorI18nJobs([]string{"missing"},
		translateplus.WithMonitorInterval(2*time.Millisecond),
		translateplus.WithMonitorMaxInterval(5*time.Millisecond),
	)
	require.NoError(t, err)
	t.Cleanup(monitor.Unsubscribe)

	updates := make(chan translateplus.JobUpdate, 64)
	silenced := make(chan translateplus.JobUpdate, 64)
	send := func(ch chan translateplus.JobUpdate) translateplus.JobCallback {
		return func(u translateplus.JobUpdate) {
			select {
			case ch <- u:
			default:
			}
		}
	}

	monitor.OnUpdate(send(updates))
	sub := monitor.OnUpdate(send(silenced))

	collectUpdates(t, silenced, 1)
	sub.Unsubscribe()

	// Let updates already dispatched before Unsubscribe drain.
	collectUpdates(t, updates, 3)
	time.Sleep(10 * time.Millisecond)
	for len(silenced) > 0 {
		<-silenced
	}

	collectUpdates(t, updates, 2)
	assert.Empty(t, silenced, "unsubscribed callback still receives updates")
}

func TestJobMonitor_Validation(t *testing.T) {
	srv := translateplustest.NewServer(t)
	client := newClient(t, srv)

	_, err := client.MonitorI18nJobs([]string{"ok", " "})
	assert.ErrorIs(t, err, translateplus.ErrValidation)

	monitor, err := client.MonitorI18nJobs(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, monitor.Add(""), translateplus.ErrValidation)
	assert.NoError(t, monitor.Add("job-9"))

	// Unsubscribe before any OnUpdate is a no-op.
	monitor.Unsubscribe()
	assert.Empty(t, srv.Requests())
}
