// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync"

	"github.com/walteh/sortrc/pkg/status"
)

// Batch is anything that runs to completion and reports stats
type Batch interface {
	Run(ctx context.Context) (status.Stats, error)
}

// 🏃 Job is a batch running on its own goroutine. Cancel may be called
// from any goroutine; the batch stops before its next file.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}

	once  sync.Once
	stats status.Stats
	err   error
}

// 🏗️ Start runs b in the background
func Start(ctx context.Context, b Batch) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(j.done)
		j.stats, j.err = b.Run(ctx)
	}()

	return j
}

// Cancel asks the batch to stop. Safe to call more than once.
func (j *Job) Cancel() {
	j.once.Do(j.cancel)
}

// Done is closed when the batch returns
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// ⏳ Wait blocks until the batch returns
func (j *Job) Wait() (status.Stats, error) {
	<-j.done
	j.Cancel()
	return j.stats, j.err
}
