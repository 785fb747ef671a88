package systems

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/spaghettifunk/fpsanim/engine/core"
)

func TestNewJobSystemValidatesConfig(t *testing.T) {
	if _, err := NewJobSystem(0, 4); !errors.Is(err, core.ErrNoWorkers) {
		t.Errorf("Expected ErrNoWorkers, got %v", err)
	}
	if _, err := NewJobSystem(2, -1); !errors.Is(err, core.ErrNegativeChannelSize) {
		t.Errorf("Expected ErrNegativeChannelSize, got %v", err)
	}
}

func TestScheduleParallelForVisitsEveryIndex(t *testing.T) {
	js, err := NewJobSystem(4, 16)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer js.Shutdown()

	tests := []int{0, 1, 3, 4, 1000}
	for _, count := range tests {
		visited := make([]int32, count)
		js.ScheduleParallelFor(count, func(i int) {
			atomic.AddInt32(&visited[i], 1)
		}).Complete()

		for i, v := range visited {
			if v != 1 {
				t.Errorf("count %d: expected index %d visited once, got %d", count, i, v)
			}
		}
	}
}

func TestScheduleJoins(t *testing.T) {
	js, err := NewJobSystem(2, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer js.Shutdown()

	var sum int64
	handles := make([]*JobHandle, 0, 100)
	for i := 1; i <= 100; i++ {
		n := int64(i)
		handles = append(handles, js.Schedule(func() { atomic.AddInt64(&sum, n) }))
	}
	for _, h := range handles {
		h.Complete()
	}
	if sum != 5050 {
		t.Errorf("Expected 5050, got %d", sum)
	}
}

func TestNilAndClosedJobSystemRunInline(t *testing.T) {
	var none *JobSystem
	ran := false
	none.Schedule(func() { ran = true })
	if !ran {
		t.Errorf("Expected a nil job system to run the job inline")
	}
	if none.Workers() != 0 {
		t.Errorf("Expected 0 workers, got %d", none.Workers())
	}
	if err := none.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	js, err := NewJobSystem(1, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	count := 0
	js.ScheduleParallelFor(5, func(int) { count++ })
	if count != 5 {
		t.Errorf("Expected 5 inline runs after shutdown, got %d", count)
	}
	if err := js.Shutdown(); !errors.Is(err, core.ErrJobSystemClosed) {
		t.Errorf("Expected ErrJobSystemClosed, got %v", err)
	}

	var handle *JobHandle
	handle.Complete()
}

func TestPanickingJobKeepsWorker(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer js.Shutdown()

	js.Schedule(func() { panic("boom") }).Complete()

	var ran atomic.Bool
	js.Schedule(func() { ran.Store(true) }).Complete()
	if !ran.Load() {
		t.Errorf("Expected the worker to survive a panicking job")
	}
}

func TestSystemManagerWithoutAssets(t *testing.T) {
	sm, err := NewSystemManager(SystemManagerConfig{NumWorkers: 2, JobQueueSize: 4})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sm.JobSystem().Workers() != 2 {
		t.Errorf("Expected 2 workers, got %d", sm.JobSystem().Workers())
	}
	if sm.AssetManager() != nil {
		t.Errorf("Expected no asset manager")
	}
	if err := sm.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if _, err := NewSystemManager(SystemManagerConfig{}); !errors.Is(err, core.ErrNoWorkers) {
		t.Errorf("Expected ErrNoWorkers, got %v", err)
	}
}

func TestSystemManagerWithAssets(t *testing.T) {
	sm, err := NewSystemManager(SystemManagerConfig{NumWorkers: 1, AssetsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sm.AssetManager() == nil {
		t.Errorf("Expected an asset manager")
	}
	if err := sm.Shutdown(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
