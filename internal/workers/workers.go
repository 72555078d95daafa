// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-auth-session/internal/server"
	"github.com/MKhiriev/go-auth-session/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers groups workers. Nil entries are skipped.
func NewWorkers(workers ...Worker) *Workers {
	ws := &Workers{}
	for _, w := range workers {
		if w != nil {
			ws.workers = append(ws.workers, w)
		}
	}
	return ws
}

// Start starts the workers in registration order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops the workers in reverse registration order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

type refreshWorker struct {
	job      service.ProfileRefreshJob
	interval time.Duration
}

// NewRefreshWorker runs job every interval. A non-positive interval leaves
// the job idle.
func NewRefreshWorker(job service.ProfileRefreshJob, interval time.Duration) Worker {
	return &refreshWorker{job: job, interval: interval}
}

func (r *refreshWorker) Start(ctx context.Context) {
	r.job.Start(ctx, r.interval)
}

func (r *refreshWorker) Stop() {
	r.job.Stop()
}

type serverWorker struct {
	srv server.Server
	wg  sync.WaitGroup
}

// NewServerWorker runs srv in its own goroutine. Stop shuts the server down
// and waits for RunServer to return.
func NewServerWorker(srv server.Server) Worker {
	return &serverWorker{srv: srv}
}

func (s *serverWorker) Start(context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.srv.RunServer()
	}()
}

func (s *serverWorker) Stop() {
	s.srv.Shutdown()
	s.wg.Wait()
}
