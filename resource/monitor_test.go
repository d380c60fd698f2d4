package resource

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/logger"
	pscpu "github.com/shirou/gopsutil/cpu"
	psmem "github.com/shirou/gopsutil/mem"
	psnet "github.com/shirou/gopsutil/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMonitor(store Store) *Monitor {
	log := logger.NewLogger("test-monitor", logger.DebugConfig())
	log.Discard()

	conf := config.Monitor{
		Rate:         config.Duration(time.Millisecond * 10),
		SampleWindow: config.Duration(time.Millisecond),
	}
	m := NewMonitor(conf, store, log)
	m.retrier.InitialInterval = time.Millisecond
	m.retrier.MaxTries = 2

	var mtx sync.Mutex
	var sent uint64
	m.host = hostStats{
		cpuPercent: func(time.Duration, bool) ([]float64, error) {
			return []float64{10, 30}, nil
		},
		cpuInfo: func() ([]pscpu.InfoStat, error) {
			return []pscpu.InfoStat{{Mhz: 2400}, {Mhz: 2400}, {Mhz: 2400}, {Mhz: 2400}}, nil
		},
		virtualMemory: func() (*psmem.VirtualMemoryStat, error) {
			return &psmem.VirtualMemoryStat{Free: 2048, Available: 4096}, nil
		},
		ioCounters: func(bool) ([]psnet.IOCountersStat, error) {
			mtx.Lock()
			defer mtx.Unlock()
			sent += 2 * 1024 * 1024
			return []psnet.IOCountersStat{{Name: "eth0", BytesSent: sent}}, nil
		},
		txQueueLens: func() (map[string]int, error) {
			return map[string]int{"lo": 1000, "eth0": 1000, "wlan0": 500}, nil
		},
	}
	return m
}

func TestMonitorSample(t *testing.T) {
	s := NewMemoryStore()
	m := newTestMonitor(s)

	var observed []string
	m.OnSample = func(i Info) { observed = append(observed, i.Name) }

	require.NoError(t, m.Sample(context.Background()))

	expected := map[string]float64{
		CPUUsage:     20,
		CPUFreq:      2400,
		CPUCount:     4,
		MemFree:      2,
		MemAvailable: 4,
		NetMBps:      2,
		NetBandwidth: 750,
	}
	for k, v := range expected {
		info, err := s.Get(k)
		require.NoError(t, err, k)
		assert.Equal(t, v, info.Value, k)
		assert.False(t, info.Updated.IsZero())
	}
	assert.Len(t, observed, len(expected))

	// network/rtt is never sampled.
	_, err := s.Get(NetRTT)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonitorSampleSkipsFailures(t *testing.T) {
	s := NewMemoryStore()
	m := newTestMonitor(s)
	m.host.cpuInfo = func() ([]pscpu.InfoStat, error) {
		return nil, errors.New("no /proc/cpuinfo")
	}
	m.host.txQueueLens = func() (map[string]int, error) {
		return map[string]int{"lo": 1000}, nil
	}

	err := m.Sample(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), CPUFreq))
	assert.True(t, strings.Contains(err.Error(), CPUCount))
	assert.True(t, strings.Contains(err.Error(), NetBandwidth))

	_, err = s.Get(CPUFreq)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(MemFree)
	assert.NoError(t, err)
}

type failingStore struct {
	*MemoryStore
	calls int
}

func (f *failingStore) Set(info Info) error {
	f.calls++
	return errors.New("disk full")
}

func TestMonitorRetriesWrites(t *testing.T) {
	s := &failingStore{MemoryStore: NewMemoryStore()}
	m := newTestMonitor(s)

	err := m.Sample(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// 7 sampled resources, 2 tries each.
	assert.Equal(t, 14, s.calls)
}

func TestMonitorRun(t *testing.T) {
	s := NewMemoryStore()
	m := newTestMonitor(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := s.Get(NetBandwidth)
		return err == nil
	}, time.Second*5, time.Millisecond*10)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("monitor did not stop")
	}
}

func TestIsPhysicalLink(t *testing.T) {
	for name, expected := range map[string]bool{
		"eth0":      true,
		"enp3s0":    true,
		"wlp2s0":    true,
		"wlan0":     true,
		"lo":        false,
		"docker0":   false,
		"veth1234a": true,
	} {
		assert.Equal(t, expected, isPhysicalLink(name), name)
	}
}
