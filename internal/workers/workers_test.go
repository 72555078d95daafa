// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-auth-session/internal/mock"
)

// recordingWorker appends its events to a shared log.
type recordingWorker struct {
	id  string
	log *[]string
}

func (r *recordingWorker) Start(context.Context) {
	*r.log = append(*r.log, "start "+r.id)
}

func (r *recordingWorker) Stop() {
	*r.log = append(*r.log, "stop "+r.id)
}

func TestWorkers_StartOrderAndReverseStop(t *testing.T) {
	var events []string
	ws := NewWorkers(
		&recordingWorker{id: "1", log: &events},
		&recordingWorker{id: "2", log: &events},
		&recordingWorker{id: "3", log: &events},
	)

	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, []string{
		"start 1", "start 2", "start 3",
		"stop 3", "stop 2", "stop 1",
	}, events)
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers()

	// не должно паниковать на пустом списке
	assert.NotPanics(t, func() {
		ws.Start(context.Background())
		ws.Stop()
	})
}

func TestWorkers_Nil(t *testing.T) {
	var events []string
	ws := NewWorkers(nil, &recordingWorker{id: "1", log: &events}, nil)

	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"start 1", "stop 1"}, events)
}

func TestRefreshWorker_DelegatesToJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := mock.NewMockProfileRefreshJob(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		job.EXPECT().Start(ctx, 5*time.Minute),
		job.EXPECT().Stop(),
	)

	w := NewRefreshWorker(job, 5*time.Minute)
	w.Start(ctx)
	w.Stop()
}

// blockingServer blocks in RunServer until Shutdown is called.
type blockingServer struct {
	once    sync.Once
	stop    chan struct{}
	started chan struct{}
}

func newBlockingServer() *blockingServer {
	return &blockingServer{stop: make(chan struct{}), started: make(chan struct{})}
}

func (b *blockingServer) RunServer() {
	close(b.started)
	<-b.stop
}

func (b *blockingServer) Shutdown() {
	b.once.Do(func() { close(b.stop) })
}

func TestServerWorker_StopWaitsForRunServer(t *testing.T) {
	srv := newBlockingServer()
	w := NewServerWorker(srv)

	w.Start(context.Background())

	select {
	case <-srv.started:
	case <-time.After(time.Second):
		t.Fatal("RunServer was not called")
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
