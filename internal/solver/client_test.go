package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.SolverConfig{
		BaseURL:         srv.URL,
		HTTPTimeout:     2 * time.Second,
		PollInterval:    5 * time.Millisecond,
		MaxPollFailures: 3,
	}, nil)
	return client, srv
}

func TestSubmitReturnsJobID(t *testing.T) {
	var captured dto.SolveRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/solve", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(dto.SolveSubmitResponse{JobID: "job-42"})
	}))

	jobID, err := client.Submit(context.Background(), dto.SolveRequest{
		Instance: dto.SolverInstance{Timeslots: []string{"mon.all.1"}},
	})
	require.NoError(t, err)
	require.Equal(t, "job-42", jobID)
	require.Equal(t, []string{"mon.all.1"}, captured.Instance.Timeslots)
}

func TestSubmitRejectedIsNotRetried(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad instance", http.StatusBadRequest)
	}))

	_, err := client.Submit(context.Background(), dto.SolveRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSubmitEmptyJobIDFails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.SolveSubmitResponse{})
	}))

	_, err := client.Submit(context.Background(), dto.SolveRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty job id")
}

func TestAwaitResultWaitsForCompletion(t *testing.T) {
	var polls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/jobs/job-1/result", r.URL.Path)
		if atomic.AddInt32(&polls, 1) < 3 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(dto.SolverJobResult{
			Status: "optimal",
			Stats:  dto.SolverStats{Status: "optimal", SolveTimeSec: 1.5},
		})
	}))

	result, err := client.AwaitResult(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, "optimal", result.Status)
	require.Equal(t, 1.5, result.Stats.SolveTimeSec)
	require.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestAwaitResultInfeasibleCompletesNormally(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.SolverJobResult{Status: dto.SolverStatusInfeasible})
	}))

	result, err := client.AwaitResult(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, dto.SolverStatusInfeasible, result.Status)
	require.Empty(t, result.Assignments)
}

func TestAwaitResultSolverFailureIsTerminal(t *testing.T) {
	var polls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&polls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(dto.SolverErrorDetail{Detail: "no solution"})
	}))

	_, err := client.AwaitResult(context.Background(), "job-1")
	require.Error(t, err)

	var solverErr *Error
	require.ErrorAs(t, err, &solverErr)
	require.Equal(t, "no solution", solverErr.Detail)
	require.Equal(t, int32(1), atomic.LoadInt32(&polls))
}

func TestAwaitResultRetriesTransportFailures(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			// Drop the connection mid-flight.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		_ = json.NewEncoder(w).Encode(dto.SolverJobResult{Status: "optimal"})
	}))
	defer srv.Close()

	client := NewClient(config.SolverConfig{
		BaseURL:         srv.URL,
		HTTPTimeout:     2 * time.Second,
		PollInterval:    5 * time.Millisecond,
		MaxPollFailures: 5,
	}, nil)

	result, err := client.AwaitResult(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, "optimal", result.Status)
}

func TestAwaitResultGivesUpAfterFailureBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every poll now fails at the transport level

	client := NewClient(config.SolverConfig{
		BaseURL:         srv.URL,
		HTTPTimeout:     time.Second,
		PollInterval:    time.Millisecond,
		MaxPollFailures: 2,
	}, nil)

	_, err := client.AwaitResult(context.Background(), "job-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "gave up polling")
}

func TestAwaitResultHonoursContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.AwaitResult(ctx, "job-1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
