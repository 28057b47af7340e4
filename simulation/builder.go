package simulation

import (
	"fmt"
	"log"
	"time"

	"github.com/sarchlab/diningsim/datarecording"
	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/monitoring"
	"github.com/sarchlab/diningsim/sim"
	"github.com/sarchlab/diningsim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg          dining.Config
	tickInterval time.Duration
	maxStepTicks int
	stepMode     bool
	logger       *log.Logger
	waitTracing  bool

	recordingOn    bool
	outputFileName string

	monitorOn   bool
	monitorPort int
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		cfg:          dining.DefaultConfig(),
		tickInterval: DefaultTickInterval,
		maxStepTicks: DefaultMaxStepTicks,
	}
}

// WithConfig sets the configuration of the table.
func (b Builder) WithConfig(cfg dining.Config) Builder {
	b.cfg = cfg
	return b
}

// WithTickInterval sets the wall-clock time between two ticks in continuous
// mode.
func (b Builder) WithTickInterval(d time.Duration) Builder {
	b.tickInterval = d
	return b
}

// WithMaxStepTicks sets how many ticks a single step may take before giving
// up on seeing a change.
func (b Builder) WithMaxStepTicks(n int) Builder {
	b.maxStepTicks = n
	return b
}

// WithStepMode starts the simulation in step mode.
func (b Builder) WithStepMode() Builder {
	b.stepMode = true
	return b
}

// WithLogger prints every event into the logger.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithWaitTimeTracing measures how long philosophers wait for forks.
func (b Builder) WithWaitTimeTracing() Builder {
	b.waitTracing = true
	return b
}

// WithRecording records the run into path.sqlite3. An empty path names the
// file after the simulation ID.
func (b Builder) WithRecording(path string) Builder {
	b.recordingOn = true
	b.outputFileName = path

	return b
}

// WithMonitor serves the monitoring API on the port. Port 0 picks a free
// port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port

	return b
}

func (b Builder) parametersMustBeValid() {
	if b.tickInterval <= 0 {
		panic("tick interval must be positive")
	}

	if b.maxStepTicks < 1 {
		panic("a step must be allowed at least one tick")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := NewSimulation()
	s.tickInterval = b.tickInterval
	s.maxStepTicks = b.maxStepTicks
	s.stepMode = b.stepMode

	if err := s.Initialize(b.cfg); err != nil {
		return nil, err
	}

	if b.logger != nil {
		s.AcceptHook(sim.NewEventLogger(b.logger))
	}

	if b.waitTracing {
		s.waitTracer = tracing.NewWaitTimeTracer()
		s.AcceptHook(s.waitTracer)
	}

	if b.recordingOn {
		b.buildRecording(s)
	}

	if b.monitorOn {
		b.buildMonitor(s)
	}

	return s, nil
}

func (b Builder) buildRecording(s *Simulation) {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "diningsim_" + s.id
	}

	s.dataRecorder = datarecording.New(outputPath)

	s.runRecorder = datarecording.NewRunRecorder(s.dataRecorder)
	s.runRecorder.Start()
	s.runRecorder.Note("Simulation ID", s.id)
	s.runRecorder.Note("Config", fmt.Sprintf("%+v", b.cfg))

	s.tracer = tracing.NewDBTracer(tableClock{s}, s.dataRecorder)
	s.AcceptHook(s.tracer)
	s.tracer.EnableTracing()
}

func (b Builder) buildMonitor(s *Simulation) {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterController(s)

	if b.cfg.MealsRequired > 0 {
		s.AcceptHook(s.monitor.TrackMeals(b.cfg.MealsRequired))
	}

	s.monitor.StartServer()
}
