package types

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// ParallelJob is one independent unit of work, it reports its progress
// through the output of the slot it runs in
type ParallelJob func(ctx context.Context, out *ParallelOutput) error

// RunParallel runs the jobs with at most parallel of them at a time and
// refreshes one terminal line per slot. The first failure stops jobs from
// being started and is returned once the running ones are done.
func RunParallel(ctx context.Context, parallel int, frequency time.Duration, jobs []ParallelJob) error {
	if parallel < 1 {
		parallel = 1
	}
	parallel = min(parallel, len(jobs))
	if parallel == 0 {
		return nil
	}
	outputs := make([]*ParallelOutput, parallel)
	slots := make(chan int, parallel)
	for i := range outputs {
		outputs[i] = NewParallelOutput()
		slots <- i
	}

	printer := NewTerminalPrinter(ctx, outputs, frequency)
	printer.Start()
	defer printer.Stop()

	jobsCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	for i, job := range jobs {
		var slot int
		select {
		case <-jobsCtx.Done():
		case slot = <-slots:
		}
		if jobsCtx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i, slot int, job ParallelJob) {
			defer wg.Done()
			err := job(jobsCtx, outputs[slot])
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("job %d: %w", i+1, err)
					cancel()
				})
			}
			slots <- slot
		}(i, slot, job)
	}
	wg.Wait()
	if firstErr == nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return firstErr
}

// TERMINAL PRINTER

type TerminalPrinter struct {
	outputs       []*ParallelOutput
	ctx           context.Context
	printerCtx    context.Context
	printerCancel context.CancelFunc
	frequency     time.Duration
	done          chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(ctx context.Context, outputs []*ParallelOutput, frequency time.Duration) *TerminalPrinter {
	printerCtx, cancel := context.WithCancel(ctx)
	writer := uilive.New()
	writers := make([]io.Writer, len(outputs))
	for i := range outputs {
		if i == 0 {
			writers[i] = writer
		} else {
			writers[i] = writer.Newline()
		}
	}
	if frequency <= 0 {
		frequency = time.Second
	}
	return &TerminalPrinter{
		outputs:       outputs,
		ctx:           ctx,
		printerCtx:    printerCtx,
		printerCancel: cancel,
		frequency:     frequency,
		done:          make(chan struct{}),

		writer:  writer,
		writers: writers,
	}
}

func (p *TerminalPrinter) Start() {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.frequency)
		defer ticker.Stop()
		for {
			select {
			case <-p.printerCtx.Done():
				p.print()
				return
			case <-ticker.C:
				p.print()
			}
		}
	}()
}

// Stop prints the last statuses and waits for the printer to exit
func (p *TerminalPrinter) Stop() {
	p.printerCancel()
	<-p.done
}

func (p *TerminalPrinter) print() {
	for i, output := range p.outputs {
		fmt.Fprintln(p.writers[i], output.Get())
	}
	p.writer.Flush()
}

// PARALLEL OUTPUT

// ParallelOutput holds the status line of a slot
type ParallelOutput struct {
	mu        sync.Mutex
	printable string
}

func NewParallelOutput() *ParallelOutput {
	return &ParallelOutput{printable: "Idle"}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// TrySet the output string without waiting, false if the printer holds it
func (p *ParallelOutput) TrySet(s string) bool {
	if !p.mu.TryLock() {
		return false
	}
	defer p.mu.Unlock()
	p.printable = s
	return true
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
