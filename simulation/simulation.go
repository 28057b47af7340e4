package simulation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/diningsim/datarecording"
	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/monitoring"
	"github.com/sarchlab/diningsim/sim"
	"github.com/sarchlab/diningsim/tracing"
)

// Errors returned by the commands of a Simulation.
var (
	ErrHalted         = errors.New("simulation halted")
	ErrNotStepMode    = errors.New("simulation is not in step mode")
	ErrNotInitialized = errors.New("simulation is not initialized")
)

// Defaults of the scheduler.
const (
	DefaultTickInterval = 100 * time.Millisecond
	DefaultMaxStepTicks = 10000
)

// Snapshot is the observable state of a simulation.
type Snapshot = dining.Snapshot

// StepResult is the outcome of Step.
type StepResult = dining.StepResult

// A HaltHandler is called once each time the table halts, by death or because
// every philosopher ate enough. It runs without the simulation lock held.
type HaltHandler func(report dining.TickReport)

// A Simulation drives a table, either one step at a time or continuously from
// a wall-clock ticker. All commands are safe for concurrent use.
//
// Hooks receive sim.HookPosBeforeTick and sim.HookPosAfterTick with a
// dining.TickReport, plus sim.HookPosBufPush and sim.HookPosBufEvict with a
// dining.Event from the event log. Hooks run with the simulation locked and
// must not call back into it. Register them before the first tick.
type Simulation struct {
	sim.HookableBase

	mu sync.Mutex
	wg sync.WaitGroup

	id           string
	table        *dining.Table
	tickInterval time.Duration
	maxStepTicks int

	running    bool
	stepMode   bool
	generation uint64
	stop       chan struct{}

	haltHandlers []HaltHandler

	dataRecorder datarecording.DataRecorder
	runRecorder  *datarecording.RunRecorder
	tracer       *tracing.DBTracer
	waitTracer   *tracing.WaitTimeTracer
	monitor      *monitoring.Monitor
}

// NewSimulation creates a simulation without a table. Call Initialize before
// any other command.
func NewSimulation() *Simulation {
	return &Simulation{
		id:           xid.New().String(),
		tickInterval: DefaultTickInterval,
		maxStepTicks: DefaultMaxStepTicks,
	}
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetDataRecorder returns the data recorder, nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetTracer returns the tracer, nil if recording is off.
func (s *Simulation) GetTracer() *tracing.DBTracer {
	return s.tracer
}

// GetWaitTimeTracer returns the wait time tracer, nil if it is off.
func (s *Simulation) GetWaitTimeTracer() *tracing.WaitTimeTracer {
	return s.waitTracer
}

// GetMonitor returns the monitor, nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterHaltHandler adds a function to call when the table halts.
func (s *Simulation) RegisterHaltHandler(h HaltHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.haltHandlers = append(s.haltHandlers, h)
}

// Initialize validates the configuration and rebuilds the table from it. Any
// continuous run stops.
func (s *Simulation) Initialize(cfg dining.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	if s.table == nil {
		table, err := dining.NewTable(cfg)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}

		table.Events().AcceptHook(sim.HookFunc(s.forwardEvent))
		s.table = table

		return nil
	}

	s.closeTraceSession()

	if _, err := s.table.Reconfigure(cfg); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	s.table.Reset()
	s.openTraceSession()

	return nil
}

func (s *Simulation) forwardEvent(ctx sim.HookCtx) {
	ctx.Domain = s
	s.InvokeHook(ctx)
}

// Reset rebuilds the table from the current configuration. A continuous run
// stops. Step mode is kept.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return
	}

	s.stopLocked()
	s.closeTraceSession()
	s.table.Reset()
	s.openTraceSession()
}

// SetRunning starts or stops continuous mode. Starting leaves step mode and
// fails with ErrHalted if the table has halted.
func (s *Simulation) SetRunning(running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !running {
		s.stopLocked()
		return nil
	}

	if s.table == nil {
		return ErrNotInitialized
	}

	if s.table.Halted() {
		return fmt.Errorf("cannot run: %w", ErrHalted)
	}

	s.stepMode = false
	s.startLocked()

	return nil
}

// SetStepMode enters or leaves step mode. Entering it stops continuous mode.
func (s *Simulation) SetStepMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if on {
		s.stopLocked()
	}

	s.stepMode = on
}

// Step ticks until the state of some philosopher changes, the table halts or
// the step tick limit is reached. It only works in step mode. Stepping a
// halted table does nothing.
func (s *Simulation) Step() (StepResult, error) {
	s.mu.Lock()

	if s.table == nil {
		s.mu.Unlock()
		return StepResult{}, ErrNotInitialized
	}

	if !s.stepMode {
		s.mu.Unlock()
		return StepResult{}, ErrNotStepMode
	}

	if s.table.Halted() {
		s.mu.Unlock()
		return StepResult{Halted: true}, nil
	}

	var (
		res        StepResult
		report     dining.TickReport
		justHalted bool
	)

	for res.Ticks < s.maxStepTicks {
		report = s.tickLocked()
		res.Ticks++

		if report.Halted {
			res.Halted = true
			res.Changed = report.Changed
			justHalted = true

			break
		}

		if report.Changed {
			res.Changed = true
			break
		}
	}

	handlers := s.haltHandlers
	s.mu.Unlock()

	if justHalted {
		notifyHalt(handlers, report)
	}

	return res, nil
}

// UpdateConfig merges a partial configuration into the current one. A new
// philosopher count resets the table and stops continuous mode. Other fields
// apply from the next tick on.
func (s *Simulation) UpdateConfig(u dining.ConfigUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return ErrNotInitialized
	}

	cfg := s.table.Config().Apply(u)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("update config: %w", err)
	}

	if !u.ResizesTable(s.table.Config()) {
		_, err := s.table.Reconfigure(cfg)
		return err
	}

	s.stopLocked()
	s.closeTraceSession()

	if _, err := s.table.Reconfigure(cfg); err != nil {
		return fmt.Errorf("update config: %w", err)
	}

	s.openTraceSession()

	return nil
}

// SetSpeedFactor changes how much logical time passes per tick.
func (s *Simulation) SetSpeedFactor(factor float64) error {
	return s.UpdateConfig(dining.ConfigUpdate{SpeedFactor: &factor})
}

// Snapshot copies the observable state.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return Snapshot{DeadID: dining.NoPhilosopher}
	}

	snapshot := s.table.Snapshot()
	snapshot.Running = s.running
	snapshot.StepMode = s.stepMode

	return snapshot
}

// CurrentTime returns the logical time.
func (s *Simulation) CurrentTime() sim.VTime {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return 0
	}

	return s.table.CurrentTime()
}

// IsRunning tells if continuous mode is on.
func (s *Simulation) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// IsStepMode tells if step mode is on.
func (s *Simulation) IsStepMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stepMode
}

// Terminate stops the simulation and releases its recorder and monitor.
func (s *Simulation) Terminate() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()

	s.wg.Wait()

	if s.tracer != nil {
		s.tracer.Terminate()
	}

	if s.runRecorder != nil {
		s.runRecorder.End()
	}

	if s.dataRecorder != nil {
		s.dataRecorder.Close()
	}

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}

func (s *Simulation) tickLocked() dining.TickReport {
	advance := s.table.Config().Advance()

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    sim.HookPosBeforeTick,
		Item: dining.TickReport{
			Time:    s.table.CurrentTime(),
			Ticks:   s.table.Ticks(),
			Advance: advance,
		},
	})

	report := s.table.Tick(advance)

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    sim.HookPosAfterTick,
		Item:   report,
	})

	return report
}

func (s *Simulation) startLocked() {
	if s.running {
		return
	}

	s.running = true
	s.generation++
	s.stop = make(chan struct{})

	s.wg.Add(1)

	go s.runContinuously(s.generation, s.stop, s.tickInterval)
}

func (s *Simulation) stopLocked() {
	if !s.running {
		return
	}

	s.running = false
	s.generation++
	close(s.stop)
	s.stop = nil
}

func (s *Simulation) runContinuously(
	generation uint64,
	stop <-chan struct{},
	interval time.Duration,
) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.continuousTick(generation) {
				return
			}
		}
	}
}

// continuousTick performs one tick unless the run that scheduled it has been
// stopped. It returns false when the run is over.
func (s *Simulation) continuousTick(generation uint64) bool {
	s.mu.Lock()

	if generation != s.generation || !s.running {
		s.mu.Unlock()
		return false
	}

	report := s.tickLocked()
	if !report.Halted {
		s.mu.Unlock()
		return true
	}

	s.stopLocked()
	handlers := s.haltHandlers
	s.mu.Unlock()

	notifyHalt(handlers, report)

	return false
}

func notifyHalt(handlers []HaltHandler, report dining.TickReport) {
	for _, h := range handlers {
		h(report)
	}
}

func (s *Simulation) closeTraceSession() {
	if s.tracer != nil {
		s.tracer.StopTracingAtCurrentTime()
	}
}

func (s *Simulation) openTraceSession() {
	if s.tracer != nil {
		s.tracer.EnableTracing()
	}
}

// tableClock tells the time of the table without taking the simulation lock.
// It is only used from code that already holds the lock.
type tableClock struct {
	s *Simulation
}

func (c tableClock) CurrentTime() sim.VTime {
	return c.s.table.CurrentTime()
}
