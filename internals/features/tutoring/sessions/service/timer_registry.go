package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock dipisah supaya elapsed bisa dites tanpa menunggu beneran.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// ExpireFunc dipanggil PERSIS SEKALI saat sesi mencapai target durasi.
type ExpireFunc func(sessionID uuid.UUID)

// TimerRegistry memiliki semua runner timer aktif. Satu runner per sesi
// ongoing; resource goroutine+ticker dilepas deterministik lewat Stop/Close
// (tidak ada interval nyangkut di state global).
type TimerRegistry struct {
	mu      sync.Mutex
	runners map[uuid.UUID]*runner
	clock   Clock
	tick    time.Duration
	closed  bool
}

func NewTimerRegistry(clock Clock, tick time.Duration) *TimerRegistry {
	if tick <= 0 {
		tick = time.Second
	}
	return &TimerRegistry{
		runners: make(map[uuid.UUID]*runner),
		clock:   clock,
		tick:    tick,
	}
}

type runner struct {
	id              uuid.UUID
	start           time.Time
	durationSeconds int
	stopCh          chan struct{}
	stopOnce        sync.Once
}

func (r *runner) stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Arm menyalakan runner untuk satu sesi. Idempotent: sesi yang sudah punya
// runner tidak di-arm dua kali (guard re-entry dari reload/active query).
func (reg *TimerRegistry) Arm(sessionID uuid.UUID, startTime time.Time, durationSeconds int, onExpire ExpireFunc) {
	reg.mu.Lock()
	if reg.closed {
		reg.mu.Unlock()
		return
	}
	if _, exists := reg.runners[sessionID]; exists {
		reg.mu.Unlock()
		return
	}
	r := &runner{
		id:              sessionID,
		start:           startTime,
		durationSeconds: durationSeconds,
		stopCh:          make(chan struct{}),
	}
	reg.runners[sessionID] = r
	reg.mu.Unlock()

	go reg.run(r, onExpire)
}

func (reg *TimerRegistry) run(r *runner, onExpire ExpireFunc) {
	ticker := time.NewTicker(reg.tick)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			// elapsed dari wall-clock, bukan counter — tetap benar walau
			// proses sempat ketahan / tick telat.
			elapsed := int(reg.clock.Now().Sub(r.start) / time.Second)
			if elapsed < r.durationSeconds {
				continue
			}
			// Lepas runner & matikan tick DULU, baru persist transisi.
			// stopOnce menjamin onExpire tidak jalan dua kali walau tick
			// berikutnya sempat antre.
			reg.remove(r.id)
			fired := false
			r.stopOnce.Do(func() { fired = true })
			if fired && onExpire != nil {
				onExpire(r.id)
			}
			return
		}
	}
}

// Stop mematikan runner satu sesi (stop manual / cancel / half-pay).
func (reg *TimerRegistry) Stop(sessionID uuid.UUID) {
	reg.mu.Lock()
	r, ok := reg.runners[sessionID]
	if ok {
		delete(reg.runners, sessionID)
	}
	reg.mu.Unlock()
	if ok {
		r.stop()
	}
}

func (reg *TimerRegistry) remove(sessionID uuid.UUID) {
	reg.mu.Lock()
	delete(reg.runners, sessionID)
	reg.mu.Unlock()
}

// Active mengembalikan jumlah runner hidup (observability / test).
func (reg *TimerRegistry) Active() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.runners)
}

// Close mematikan semua runner (graceful shutdown).
func (reg *TimerRegistry) Close() {
	reg.mu.Lock()
	reg.closed = true
	rs := make([]*runner, 0, len(reg.runners))
	for _, r := range reg.runners {
		rs = append(rs, r)
	}
	reg.runners = make(map[uuid.UUID]*runner)
	reg.mu.Unlock()

	for _, r := range rs {
		r.stop()
	}
}
