package services

import (
	"context"
	"log"
	"time"
)

// ReminderWorker invokes the dispatch pipeline on an interval for
// deployments that have no external scheduler. The production setup is an
// external cron hitting the trigger endpoint; this worker is opt-in.
type ReminderWorker struct {
	dispatcher *Dispatcher
	interval   time.Duration
}

// NewReminderWorker builds a worker around the dispatcher
func NewReminderWorker(dispatcher *Dispatcher, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		dispatcher: dispatcher,
		interval:   interval,
	}
}

func (w *ReminderWorker) Start() {
	go w.run()
}

func (w *ReminderWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		summary, err := w.dispatcher.Run(context.Background(), time.Now())
		if err != nil {
			log.Printf("Reminder worker run failed: %v", err)
			continue
		}
		if summary.Processed > 0 || summary.Errors > 0 {
			log.Printf("Reminder worker processed %d reminders (%d errors)", summary.Processed, summary.Errors)
		}
	}
}
