package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("kondisi tidak tercapai dalam 2 detik")
}

func TestTimerFiresExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	reg := NewTimerRegistry(clock, time.Millisecond)
	defer reg.Close()

	var fired int32
	id := uuid.New()
	// Target sudah lewat sejak awal: tick pertama langsung expire
	reg.Arm(id, clock.Now().Add(-time.Hour), 60, func(uuid.UUID) {
		atomic.AddInt32(&fired, 1)
	})

	waitFor(t, func() bool { return atomic.LoadInt32(&fired) > 0 })

	// Runner sudah lepas; tick berikutnya tidak memanggil lagi
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, reg.Active())
}

func TestTimerWaitsUntilTarget(t *testing.T) {
	clock := newFakeClock()
	reg := NewTimerRegistry(clock, time.Millisecond)
	defer reg.Close()

	var fired int32
	id := uuid.New()
	reg.Arm(id, clock.Now(), 60, func(uuid.UUID) {
		atomic.AddInt32(&fired, 1)
	})

	// Wall-clock belum sampai target → tidak boleh fire
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.Equal(t, 1, reg.Active())

	clock.Advance(2 * time.Minute)
	waitFor(t, func() bool { return atomic.LoadInt32(&fired) == 1 })
}

func TestStopPreventsFire(t *testing.T) {
	clock := newFakeClock()
	reg := NewTimerRegistry(clock, time.Millisecond)
	defer reg.Close()

	var fired int32
	id := uuid.New()
	reg.Arm(id, clock.Now(), 60, func(uuid.UUID) {
		atomic.AddInt32(&fired, 1)
	})
	reg.Stop(id)
	assert.Equal(t, 0, reg.Active())

	// Walau waktu lewat target, runner sudah mati
	clock.Advance(time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestArmIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	reg := NewTimerRegistry(clock, time.Hour)
	defer reg.Close()

	id := uuid.New()
	reg.Arm(id, clock.Now(), 60, nil)
	reg.Arm(id, clock.Now(), 60, nil)
	assert.Equal(t, 1, reg.Active())
}

func TestCloseStopsEverything(t *testing.T) {
	clock := newFakeClock()
	reg := NewTimerRegistry(clock, time.Millisecond)

	var fired int32
	for i := 0; i < 5; i++ {
		reg.Arm(uuid.New(), clock.Now(), 3600, func(uuid.UUID) {
			atomic.AddInt32(&fired, 1)
		})
	}
	require.Equal(t, 5, reg.Active())

	reg.Close()
	assert.Equal(t, 0, reg.Active())

	clock.Advance(24 * time.Hour)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

	// Arm setelah Close diabaikan
	reg.Arm(uuid.New(), clock.Now(), 60, nil)
	assert.Equal(t, 0, reg.Active())
}
