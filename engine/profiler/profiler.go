package profiler

import (
	"log"
	"runtime"
	"time"
)

// Report is one interval of collected statistics.
type Report struct {
	// FPS is the number of rendered frames per second.
	FPS float64
	// TPS is the number of animation ticks per second.
	TPS float64
	// DrawsPerFrame is the average number of draw commands submitted per frame.
	DrawsPerFrame float64
	// MaxStackDepth is the deepest matrix stack seen during the interval.
	MaxStackDepth int
	// HeapMB is the live heap size.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in MB per second.
	AllocRateMB float64
	// GCCount is the total number of completed GC cycles.
	GCCount uint32
	// MaxPauseUs is the longest GC pause of the interval in microseconds.
	MaxPauseUs uint64
}

// Profiler tracks frame rate, tick rate, draw counts and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	tickCount      int
	drawCount      int
	maxStackDepth  int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	onReport       func(Report)
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// AddTicks records animation ticks run since the last frame.
//
// Parameters:
//   - n: the number of ticks
func (p *Profiler) AddTicks(n int) {
	if n > 0 {
		p.tickCount += n
	}
}

// ObserveStackDepth records the deepest matrix stack a frame reached.
//
// Parameters:
//   - depth: the stack depth
func (p *Profiler) ObserveStackDepth(depth int) {
	if depth > p.maxStackDepth {
		p.maxStackDepth = depth
	}
}

// Frame should be called once per rendered frame. Logs and returns a report when the
// update interval has elapsed.
//
// Parameters:
//   - draws: the number of draw commands the frame submitted
//
// Returns:
//   - Report: the statistics of the finished interval
//   - bool: true if an interval finished with this frame
func (p *Profiler) Frame(draws int) (Report, bool) {
	p.frameCount++
	p.drawCount += draws
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return Report{}, false
	}

	seconds := elapsed.Seconds()
	r := Report{
		FPS:           float64(p.frameCount) / seconds,
		TPS:           float64(p.tickCount) / seconds,
		DrawsPerFrame: float64(p.drawCount) / float64(p.frameCount),
		MaxStackDepth: p.maxStackDepth,
	}

	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRateMB = float64(allocDelta) / 1024 / 1024 / seconds

	// PauseNs is a circular buffer of the last 256 GC pauses
	r.GCCount = p.memStats.NumGC
	startIdx := p.lastGCCount
	if r.GCCount-startIdx > 256 {
		startIdx = r.GCCount - 256
	}
	for i := startIdx; i < r.GCCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > r.MaxPauseUs {
			r.MaxPauseUs = pause
		}
	}

	log.Printf("[Profiler] FPS: %.2f | TPS: %.2f | Draws/frame: %.1f | Stack depth: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs)",
		r.FPS, r.TPS, r.DrawsPerFrame, r.MaxStackDepth, r.HeapMB, r.AllocRateMB, r.GCCount, r.MaxPauseUs)
	if p.onReport != nil {
		p.onReport(r)
	}

	p.frameCount = 0
	p.tickCount = 0
	p.drawCount = 0
	p.maxStackDepth = 0
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return r, true
}
