// Package athan keeps the mosque's schedule for the current day and announces
// each prayer as its time arrives.
package athan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/metrics"
	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

// Topic names under the broker prefix.
const (
	TopicAthan = "athan"
	TopicNext  = "next"
	TopicToday = "today"
)

// Publisher sends a JSON message to a topic. *broker.Client implements it.
type Publisher interface {
	Publish(topic string, payload any, retained bool) error
}

type Config struct {
	Coordinates prayer.Coordinates
	Method      string
	Location    *time.Location
	Locale      string
}

// Announcement is published when a prayer's time arrives.
type Announcement struct {
	Prayer prayer.Prayer `json:"prayer"`
	Label  string        `json:"label"`
	Time   time.Time     `json:"time"`
}

// NextMessage is the retained state for screens.
type NextMessage struct {
	Prayer           prayer.Prayer `json:"prayer"`
	Label            string        `json:"label"`
	Time             time.Time     `json:"time"`
	SecondsRemaining int64         `json:"seconds_remaining"`
}

type Snapshot struct {
	Date  prayer.Date
	Times prayer.PrayerTimeSet
	Next  prayer.NextPrayer
	Now   time.Time
}

type Broadcaster struct {
	cfg Config
	pub Publisher
	now func() time.Time

	mu       sync.RWMutex
	date     prayer.Date
	today    prayer.PrayerTimeSet
	tomorrow *prayer.PrayerTimeSet
	err      error

	// last resolved next prayer, owned by the ticking goroutine
	last     prayer.NextPrayer
	haveLast bool
}

// New returns a broadcaster for cfg. pub may be nil, in which case nothing is
// published and the broadcaster only serves snapshots.
func New(cfg Config, pub Publisher) *Broadcaster {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Broadcaster{cfg: cfg, pub: pub, now: time.Now}
}

func (b *Broadcaster) Config() Config { return b.cfg }

// Rebuild computes the schedule for the current local date.
func (b *Broadcaster) Rebuild() error {
	b.mu.Lock()
	err := b.rebuildLocked(prayer.DateOf(b.now().In(b.cfg.Location)))
	today := b.today
	b.mu.Unlock()

	if err == nil {
		b.publishToday(today)
	}
	return err
}

func (b *Broadcaster) rebuildLocked(date prayer.Date) error {
	var (
		set prayer.PrayerTimeSet
		err error
	)
	if b.tomorrow != nil && b.tomorrow.Date == date {
		set = *b.tomorrow
	} else {
		set, err = b.compute(date)
	}

	b.date = date
	b.today = set
	b.tomorrow = nil
	b.err = err
	if err != nil {
		log.Error().Err(err).Str("date", date.String()).Str("method", b.cfg.Method).Msg("failed to compute prayer times")
		return err
	}

	log.Info().
		Str("date", date.String()).
		Str("method", set.Method).
		Str("fajr", set.Fajr.In(b.cfg.Location).Format("15:04")).
		Str("isha", set.Isha.In(b.cfg.Location).Format("15:04")).
		Msg("prayer times rebuilt")
	return nil
}

func (b *Broadcaster) publishToday(set prayer.PrayerTimeSet) {
	if b.pub == nil {
		return
	}
	if err := b.pub.Publish(TopicToday, set, true); err != nil {
		metrics.AthanPublishErrors.Inc()
		log.Warn().Err(err).Msg("failed to publish today's prayer times")
	}
}

func (b *Broadcaster) compute(date prayer.Date) (prayer.PrayerTimeSet, error) {
	set, err := prayer.ComputePrayerTimes(b.cfg.Coordinates, date, b.cfg.Method)
	metrics.ObservePrayer(b.cfg.Method, err)
	return set, err
}

// day returns the schedule for now's local date, rebuilding it if the date
// has rolled over since the last build.
func (b *Broadcaster) day(now time.Time) (prayer.PrayerTimeSet, error) {
	date := prayer.DateOf(now.In(b.cfg.Location))

	b.mu.RLock()
	fresh := b.date == date
	today, err := b.today, b.err
	b.mu.RUnlock()
	if fresh {
		return today, err
	}

	b.mu.Lock()
	rebuilt := false
	if b.date != date {
		b.rebuildLocked(date)
		rebuilt = true
	}
	today, err = b.today, b.err
	b.mu.Unlock()

	if rebuilt && err == nil {
		b.publishToday(today)
	}
	return today, err
}

// tomorrowOf is the lazy provider handed to the resolver; it caches the
// following day's schedule.
func (b *Broadcaster) tomorrowOf(today prayer.Date) prayer.TomorrowProvider {
	return func() (prayer.PrayerTimeSet, error) {
		next := today.AddDays(1)

		b.mu.RLock()
		cached := b.tomorrow
		b.mu.RUnlock()
		if cached != nil && cached.Date == next {
			return *cached, nil
		}

		set, err := b.compute(next)
		if err != nil {
			return prayer.PrayerTimeSet{}, err
		}
		b.mu.Lock()
		if b.date == today {
			b.tomorrow = &set
		}
		b.mu.Unlock()
		return set, nil
	}
}

// Snapshot returns today's schedule and the next prayer as of now.
func (b *Broadcaster) Snapshot() (Snapshot, error) {
	now := b.now()
	today, err := b.day(now)
	if err != nil {
		return Snapshot{}, err
	}
	next, err := prayer.ResolveNextPrayer(now, today, b.tomorrowOf(today.Date))
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Date: today.Date, Times: today, Next: next, Now: now}, nil
}

// Tick resolves the next prayer and, when it has moved on, announces the
// prayer whose time just arrived.
func (b *Broadcaster) Tick() {
	snap, err := b.Snapshot()
	if err != nil {
		return
	}
	metrics.NextPrayerSeconds.Set(float64(snap.Next.SecondsRemaining()))

	if b.haveLast && b.last.Prayer == snap.Next.Prayer && b.last.Time.Equal(snap.Next.Time) {
		return
	}
	prev, hadPrev := b.last, b.haveLast
	b.last, b.haveLast = snap.Next, true

	if hadPrev && !snap.Now.Before(prev.Time) {
		b.announce(prev)
	}
	b.publishNext(snap.Next)
}

func (b *Broadcaster) announce(arrived prayer.NextPrayer) {
	label := arrived.Prayer.Label(b.cfg.Locale)
	log.Info().Str("prayer", arrived.Prayer.String()).Time("time", arrived.Time).Msg("athan time")
	metrics.AthanAnnouncements.WithLabelValues(arrived.Prayer.String()).Inc()

	if b.pub == nil {
		return
	}
	msg := Announcement{Prayer: arrived.Prayer, Label: label, Time: arrived.Time}
	if err := b.pub.Publish(TopicAthan, msg, false); err != nil {
		metrics.AthanPublishErrors.Inc()
		log.Error().Err(err).Str("prayer", arrived.Prayer.String()).Msg("failed to publish athan announcement")
	}
}

func (b *Broadcaster) publishNext(next prayer.NextPrayer) {
	if b.pub == nil {
		return
	}
	msg := NextMessage{
		Prayer:           next.Prayer,
		Label:            next.Prayer.Label(b.cfg.Locale),
		Time:             next.Time,
		SecondsRemaining: next.SecondsRemaining(),
	}
	if err := b.pub.Publish(TopicNext, msg, true); err != nil {
		metrics.AthanPublishErrors.Inc()
		log.Error().Err(err).Msg("failed to publish next prayer")
	}
}

// Run rebuilds at local midnight and ticks every second until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) error {
	if err := b.Rebuild(); err != nil {
		log.Warn().Err(err).Msg("starting athan broadcaster without a schedule")
	}

	c := cron.New(cron.WithLocation(b.cfg.Location))
	if _, err := c.AddFunc("0 0 * * *", func() {
		if err := b.Rebuild(); err != nil {
			log.Error().Err(err).Msg("midnight rebuild failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule midnight rebuild: %w", err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	b.Tick()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("athan broadcaster stopped")
			return nil
		case <-ticker.C:
			b.Tick()
		}
	}
}
