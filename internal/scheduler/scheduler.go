package scheduler

import (
	"log"
	"time"

	"jobboard-bot/internal/forms"

	"github.com/go-co-op/gocron/v2"
)

type Scheduler struct {
	instance gocron.Scheduler
}

func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{instance: s}, nil
}

func (s *Scheduler) AddJob(interval time.Duration, job func()) {
	_, err := s.instance.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job),
	)
	if err != nil {
		log.Printf("Error adding job to scheduler: %v", err)
	}
}

// AddSessionSweep drops form sessions idle for longer than ttl. The sweep
// runs at half the TTL so a session never lives much past its deadline.
func (s *Scheduler) AddSessionSweep(ttl time.Duration, stores ...*forms.SessionStore) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	s.AddJob(interval, func() {
		total := 0
		for _, store := range stores {
			total += store.SweepIdle(ttl)
		}
		if total > 0 {
			log.Printf("Swept %d idle form sessions", total)
		}
	})
}

func (s *Scheduler) Start() {
	s.instance.Start()
	log.Println("Scheduler started")
}

func (s *Scheduler) Stop() {
	if err := s.instance.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %v", err)
	}
}
