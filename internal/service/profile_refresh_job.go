// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-auth-session/internal/logger"
)

type profileRefreshJob struct {
	session SessionController

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewProfileRefreshJob creates a profileRefreshJob that calls session.Refresh
// on a ticker. The job is idle until Start is called.
func NewProfileRefreshJob(session SessionController, log *logger.Logger) ProfileRefreshJob {
	return &profileRefreshJob{session: session, logger: log}
}

// Start implements ProfileRefreshJob. It stops any previously running job,
// then launches a background goroutine that refreshes the profile every
// interval while a user is signed in. Expiry is still detected only by the
// server answering 401 to one of these calls. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *profileRefreshJob) Start(ctx context.Context, interval time.Duration) {
	j.Stop()

	if interval <= 0 {
		j.logger.Debug().Str("func", "profileRefreshJob.Start").Msg("profile refresh disabled")
		return
	}

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if !j.session.State().IsAuthenticated() {
					continue
				}
				_ = j.session.Refresh(jobCtx)
			}
		}
	}()
}

// Stop implements ProfileRefreshJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running.
func (j *profileRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
