package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/edgeorch/rater/config"
	"github.com/edgeorch/rater/logger"
	"github.com/edgeorch/rater/util"
	multierror "github.com/hashicorp/go-multierror"
	pscpu "github.com/shirou/gopsutil/cpu"
	psmem "github.com/shirou/gopsutil/mem"
	psnet "github.com/shirou/gopsutil/net"
)

// hostStats reads raw statistics from the host.
// The fields are replaced in tests.
type hostStats struct {
	cpuPercent    func(interval time.Duration, percpu bool) ([]float64, error)
	cpuInfo       func() ([]pscpu.InfoStat, error)
	virtualMemory func() (*psmem.VirtualMemoryStat, error)
	ioCounters    func(pernic bool) ([]psnet.IOCountersStat, error)
	txQueueLens   func() (map[string]int, error)
}

func defaultHostStats() hostStats {
	return hostStats{
		cpuPercent:    pscpu.Percent,
		cpuInfo:       pscpu.Info,
		virtualMemory: psmem.VirtualMemory,
		ioCounters:    psnet.IOCounters,
		txQueueLens:   txQueueLens,
	}
}

// Monitor periodically samples resources of the local device
// and records them in a Store.
type Monitor struct {
	conf    config.Monitor
	store   Store
	log     *logger.Logger
	host    hostStats
	retrier *util.Retrier
	// OnSample, if set, is called with every value written to the store.
	OnSample func(Info)
}

// NewMonitor returns a new Monitor writing to the given store.
func NewMonitor(conf config.Monitor, store Store, log *logger.Logger) *Monitor {
	r := util.NewRetrier()
	r.Notify = func(err error, d time.Duration) {
		log.Debug("Retrying resource write", "error", err, "delay", d)
	}
	return &Monitor{
		conf:    conf,
		store:   store,
		log:     log,
		host:    defaultHostStats(),
		retrier: r,
	}
}

// Run samples resources every conf.Rate until the context is canceled.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("Starting resource monitor", "rate", m.conf.Rate)
	for range util.Ticker(ctx, time.Duration(m.conf.Rate)) {
		if err := m.Sample(ctx); err != nil {
			m.log.Error("Resource sampling failed", err)
		}
	}
	m.log.Info("Resource monitor stopped")
}

type sampler struct {
	name   string
	sample func(ctx context.Context) (float64, error)
}

func (m *Monitor) samplers() []sampler {
	return []sampler{
		{CPUUsage, m.cpuUsage},
		{CPUFreq, m.cpuFreq},
		{CPUCount, m.cpuCount},
		{MemAvailable, m.memAvailable},
		{MemFree, m.memFree},
		{NetMBps, m.netMBps},
		{NetBandwidth, m.netBandwidth},
	}
}

// Sample measures every resource once and writes the values to the store.
// A resource which fails to be measured is skipped; the returned error
// describes every failure.
func (m *Monitor) Sample(ctx context.Context) error {
	var errs *multierror.Error

	for _, s := range m.samplers() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		v, err := s.sample(ctx)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %s", s.name, err))
			continue
		}

		info := Info{Name: s.name, Value: v, Updated: time.Now()}
		err = m.retrier.Retry(ctx, func() error {
			return m.store.Set(info)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: writing to store: %s", s.name, err))
			continue
		}

		m.log.Debug("Sampled resource", "key", s.name, "value", v)
		if m.OnSample != nil {
			m.OnSample(info)
		}
	}
	return errs.ErrorOrNil()
}

func (m *Monitor) window() time.Duration {
	if m.conf.SampleWindow <= 0 {
		return time.Second
	}
	return time.Duration(m.conf.SampleWindow)
}

// cpuUsage is the mean usage percentage across all cpus.
func (m *Monitor) cpuUsage(ctx context.Context) (float64, error) {
	cpus, err := m.host.cpuPercent(m.window(), true)
	if err != nil {
		return 0, err
	}
	if len(cpus) == 0 {
		return 0, fmt.Errorf("no cpus reported")
	}
	var usage float64
	for _, c := range cpus {
		usage += c
	}
	return usage / float64(len(cpus)), nil
}

// cpuFreq is the frequency of the first cpu, in MHz.
func (m *Monitor) cpuFreq(ctx context.Context) (float64, error) {
	infos, err := m.host.cpuInfo()
	if err != nil {
		return 0, err
	}
	if len(infos) == 0 {
		return 0, fmt.Errorf("no cpus reported")
	}
	return infos[0].Mhz, nil
}

func (m *Monitor) cpuCount(ctx context.Context) (float64, error) {
	infos, err := m.host.cpuInfo()
	if err != nil {
		return 0, err
	}
	return float64(len(infos)), nil
}

// memAvailable is in KiB.
func (m *Monitor) memAvailable(ctx context.Context) (float64, error) {
	stat, err := m.host.virtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(stat.Available) / float64(units.KiB), nil
}

// memFree is in KiB.
func (m *Monitor) memFree(ctx context.Context) (float64, error) {
	stat, err := m.host.virtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(stat.Free) / float64(units.KiB), nil
}

// netMBps is the number of MiB sent and received by all interfaces
// during one sample window.
func (m *Monitor) netMBps(ctx context.Context) (float64, error) {
	before, err := m.totalBytes()
	if err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(m.window()):
	}

	after, err := m.totalBytes()
	if err != nil {
		return 0, err
	}
	if after < before {
		// Counters were reset.
		return 0, fmt.Errorf("network counters went backwards")
	}
	return float64(after-before) / float64(units.MiB), nil
}

func (m *Monitor) totalBytes() (uint64, error) {
	counters, err := m.host.ioCounters(true)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, c := range counters {
		total += c.BytesRecv + c.BytesSent
	}
	return total, nil
}

// netBandwidth is the mean transmit queue length of the ethernet
// and wireless links.
func (m *Monitor) netBandwidth(ctx context.Context) (float64, error) {
	lens, err := m.host.txQueueLens()
	if err != nil {
		return 0, err
	}

	var count, total int
	for name, l := range lens {
		if isPhysicalLink(name) {
			count++
			total += l
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("no matching network interface")
	}
	return float64(total / count), nil
}

func isPhysicalLink(name string) bool {
	return strings.Contains(name, "eth") ||
		strings.Contains(name, "enp") ||
		strings.Contains(name, "wl")
}

const sysClassNet = "/sys/class/net"

// txQueueLens reads the transmit queue length of each network interface.
func txQueueLens() (map[string]int, error) {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}
	lens := map[string]int{}
	for _, iface := range ifaces {
		raw, err := os.ReadFile(filepath.Join(sysClassNet, iface.Name, "tx_queue_len"))
		if err != nil {
			continue
		}
		l, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			continue
		}
		lens[iface.Name] = l
	}
	return lens, nil
}
