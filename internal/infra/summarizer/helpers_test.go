package summarizer

import (
	"sync"
	"time"
)

// fakeRecorder captures metric calls.
type fakeRecorder struct {
	mu          sync.Mutex
	words       []int
	outOfRange  int
	compliance  []bool
	durations   []time.Duration
	invocations map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{invocations: make(map[string]int)}
}

func (f *fakeRecorder) RecordWords(words int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.words = append(f.words, words)
}

func (f *fakeRecorder) RecordOutOfRange() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outOfRange++
}

func (f *fakeRecorder) RecordCompliance(within bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compliance = append(f.compliance, within)
}

func (f *fakeRecorder) RecordDuration(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations = append(f.durations, d)
}

func (f *fakeRecorder) RecordInvocation(provider, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invocations[provider+"/"+status]++
}

func (f *fakeRecorder) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invocations[key]
}

var _ SummaryMetricsRecorder = (*fakeRecorder)(nil)

// testConfig is a provider config without rate limiting and with small length hints.
func testConfig(provider string) Config {
	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = ""
	cfg.MinLength = 3
	cfg.MaxLength = 10
	cfg.RatePerSec = 0
	cfg.Timeout = 5 * time.Second
	return cfg
}
