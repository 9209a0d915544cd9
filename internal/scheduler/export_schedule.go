package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ExportFunc runs one export. It must honour ctx cancellation.
type ExportFunc func(ctx context.Context) error

// ExportScheduler runs an export periodically. Runs never overlap: a tick
// that fires while the previous export is still going is skipped, which
// keeps a single writer on the transaction log.
type ExportScheduler struct {
	schedule string
	export   ExportFunc

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.RWMutex
	isRunning   bool
	isExporting bool
	runCtx      context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
}

// NewExportScheduler creates a scheduler for the given cron expression.
func NewExportScheduler(schedule string, export ExportFunc) *ExportScheduler {
	return &ExportScheduler{
		schedule: schedule,
		export:   export,
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log.Default()))),
		),
	}
}

// Start registers the export job and starts the cron loop. Cancelling ctx
// stops the scheduler and the export in progress.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runExport()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}
	s.entryID = entryID

	s.runCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	log.Printf("Export scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule,
		GetCronDescription(s.schedule),
		nextRun)

	runCtx := s.runCtx
	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops accepting new runs and waits for the current one to finish.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()

	log.Printf("Export scheduler: stopped")
}

// RunNow triggers an immediate export unless one is already running.
func (s *ExportScheduler) RunNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return false
	}

	// Added under the lock so Stop cannot start waiting before it.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runExport()
	}()
	return true
}

// IsRunning returns whether the scheduler is active
func (s *ExportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next export will occur
func (s *ExportScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ExportScheduler) runExport() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	if s.isExporting {
		s.mu.Unlock()
		log.Printf("Export scheduler: skipped (previous export still running)")
		return
	}
	s.isExporting = true
	ctx := s.runCtx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isExporting = false
		s.mu.Unlock()
	}()

	log.Printf("Export scheduler: starting export")
	startTime := time.Now()

	if err := s.export(ctx); err != nil {
		log.Printf("Export scheduler: export failed after %v: %v", time.Since(startTime).Round(time.Millisecond), err)
		return
	}
	log.Printf("Export scheduler: export finished in %v", time.Since(startTime).Round(time.Millisecond))
}
