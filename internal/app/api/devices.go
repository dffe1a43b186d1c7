package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	favidentity "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/identity"
	favlocal "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/local"
	favmemory "github.com/Apurer/cat-haven/internal/domains/favorites/adapters/memory"
	favapp "github.com/Apurer/cat-haven/internal/domains/favorites/application"
	favports "github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

// DeviceHeader carries the UUID a browser or app install generated for itself.
const DeviceHeader = "X-Device-ID"

var (
	ErrInvalidDevice  = errors.New("device id must be a UUID")
	ErrRegistryClosed = errors.New("device registry is shut down")
)

// Device is one browser or app install: its sign-in state and its favorites.
type Device struct {
	ID        string
	Identity  *favidentity.Broadcaster
	Favorites *favapp.Manager
	unbind    func()
	lastSeen  time.Time
}

// DeviceRegistry lazily creates a Device per device id. Every Device shares the durable
// store and owns a private local store.
//
// Devices idle for longer than the idle TTL are evicted, and when the registry is full
// the least recently seen device makes room. An evicted device loses its local favorites.
type DeviceRegistry struct {
	remote      favports.DurableStore
	newLocal    func(deviceID string) (favports.LocalStore, error)
	localDir    string
	managerOpts []favapp.Option
	logger      *slog.Logger
	maxDevices  int
	idleTTL     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	devices  map[string]*Device
	retiring map[string]chan struct{}
	closed   bool
	retired  sync.WaitGroup
}

type RegistryOption func(*DeviceRegistry)

// WithLocalDir stores each device's favorites in <dir>/<device id>/favorites.json.
// Without it devices keep their local favorites in memory.
func WithLocalDir(dir string) RegistryOption {
	return func(r *DeviceRegistry) {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return
		}
		r.localDir = dir
		r.newLocal = func(deviceID string) (favports.LocalStore, error) {
			return favlocal.NewFileStore(filepath.Join(dir, deviceID))
		}
	}
}

func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *DeviceRegistry) { r.logger = logger }
}

// WithManagerOptions forwards options to every Manager the registry creates.
func WithManagerOptions(opts ...favapp.Option) RegistryOption {
	return func(r *DeviceRegistry) { r.managerOpts = append(r.managerOpts, opts...) }
}

// WithMaxDevices caps the number of live devices. Zero means no cap.
func WithMaxDevices(n int) RegistryOption {
	return func(r *DeviceRegistry) { r.maxDevices = n }
}

// WithIdleTTL evicts devices not seen for ttl. Zero keeps idle devices forever.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *DeviceRegistry) { r.idleTTL = ttl }
}

// WithRegistryClock overrides time.Now for last-seen bookkeeping.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *DeviceRegistry) { r.now = now }
}

func NewDeviceRegistry(remote favports.DurableStore, opts ...RegistryOption) *DeviceRegistry {
	r := &DeviceRegistry{
		remote:   remote,
		devices:  map[string]*Device{},
		retiring: map[string]chan struct{}{},
		newLocal: func(string) (favports.LocalStore, error) {
			return favmemory.NewLocalStore(), nil
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Device returns the device for rawID, creating it signed out on first use.
func (r *DeviceRegistry) Device(rawID string) (*Device, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDevice, rawID)
	}
	id := parsed.String()

	for {
		now := r.now()
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return nil, ErrRegistryClosed
		}
		if device, ok := r.devices[id]; ok {
			device.lastSeen = now
			r.mu.Unlock()
			return device, nil
		}
		// A device coming back while its evicted copy is still draining waits for the
		// drain so the two never share a local store.
		if done, ok := r.retiring[id]; ok {
			r.mu.Unlock()
			<-done
			continue
		}

		device, err := r.newDeviceLocked(id, now)
		r.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return device, nil
	}
}

func (r *DeviceRegistry) newDeviceLocked(id string, now time.Time) (*Device, error) {
	r.evictIdleLocked(now)
	if r.maxDevices > 0 {
		for len(r.devices) >= r.maxDevices {
			r.retireLocked(r.leastRecentLocked(), "capacity")
		}
	}

	local, err := r.newLocal(id)
	if err != nil {
		return nil, fmt.Errorf("open local favorites for device %s: %w", id, err)
	}
	opts := append([]favapp.Option{favapp.WithLogger(r.logger.With(slog.String("device.id", id)))}, r.managerOpts...)
	device := &Device{
		ID:        id,
		Identity:  favidentity.NewBroadcaster(),
		Favorites: favapp.NewManager(r.remote, local, opts...),
		lastSeen:  now,
	}
	device.unbind = device.Favorites.Bind(device.Identity)
	device.Identity.SignOut()
	r.devices[id] = device
	r.logger.Debug("device registered", slog.String("device.id", id))
	return device, nil
}

// Sweep evicts idle devices and removes local favorites directories of devices that are
// not live and have not been written for the idle TTL. It returns the number of live
// devices evicted.
func (r *DeviceRegistry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}
	evicted := r.evictIdleLocked(now)
	live := make(map[string]struct{}, len(r.devices)+len(r.retiring))
	for id := range r.devices {
		live[id] = struct{}{}
	}
	for id := range r.retiring {
		live[id] = struct{}{}
	}
	r.mu.Unlock()

	r.pruneLocalDir(now, live)
	return evicted
}

func (r *DeviceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// Close stops accepting devices, detaches every Manager from its identity source, and
// waits for their in-flight loads and remote writes. Local favorites are kept.
func (r *DeviceRegistry) Close() {
	r.mu.Lock()
	r.closed = true
	devices := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, d)
	}
	r.mu.Unlock()

	for _, d := range devices {
		d.unbind()
	}
	for _, d := range devices {
		d.Favorites.Close()
	}
	r.retired.Wait()
	r.logger.Info("device registry drained", slog.Int("devices", len(devices)))
}

func (r *DeviceRegistry) evictIdleLocked(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	evicted := 0
	for _, d := range r.devices {
		if now.Sub(d.lastSeen) >= r.idleTTL {
			r.retireLocked(d, "idle")
			evicted++
		}
	}
	return evicted
}

func (r *DeviceRegistry) leastRecentLocked() *Device {
	var oldest *Device
	for _, d := range r.devices {
		if oldest == nil || d.lastSeen.Before(oldest.lastSeen) {
			oldest = d
		}
	}
	return oldest
}

// retireLocked removes d from the registry and drains it in the background. Callers hold
// r.mu and have checked that the registry is open.
func (r *DeviceRegistry) retireLocked(d *Device, reason string) {
	delete(r.devices, d.ID)
	done := make(chan struct{})
	r.retiring[d.ID] = done
	r.retired.Add(1)
	go func() {
		defer r.retired.Done()
		d.unbind()
		d.Favorites.Close()
		if r.localDir != "" {
			if err := os.RemoveAll(filepath.Join(r.localDir, d.ID)); err != nil {
				r.logger.Warn("failed to remove local favorites of evicted device",
					slog.String("device.id", d.ID), slog.String("error", err.Error()))
			}
		}
		r.mu.Lock()
		delete(r.retiring, d.ID)
		r.mu.Unlock()
		close(done)
		r.logger.Debug("device evicted", slog.String("device.id", d.ID), slog.String("reason", reason))
	}()
}

// pruneLocalDir removes device directories left behind by devices that are no longer
// live, for example after a restart.
func (r *DeviceRegistry) pruneLocalDir(now time.Time, live map[string]struct{}) {
	if r.localDir == "" || r.idleTTL <= 0 {
		return
	}
	entries, err := os.ReadDir(r.localDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to list local favorites", slog.String("error", err.Error()))
		}
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		parsed, err := uuid.Parse(entry.Name())
		if err != nil || parsed.String() != entry.Name() {
			continue
		}
		if _, ok := live[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) < r.idleTTL {
			continue
		}
		r.removeIfNotLive(entry.Name())
	}
}

// removeIfNotLive deletes the directory of id unless the device came back since the sweep
// started. Holding r.mu keeps Device from opening the directory meanwhile.
func (r *DeviceRegistry) removeIfNotLive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[id]; ok {
		return
	}
	if _, ok := r.retiring[id]; ok {
		return
	}
	if err := os.RemoveAll(filepath.Join(r.localDir, id)); err != nil {
		r.logger.Warn("failed to prune local favorites", slog.String("device.id", id), slog.String("error", err.Error()))
	}
}
