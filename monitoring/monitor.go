// Package monitoring turns a simulation into a web server that can be observed
// and controlled over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/sim"
)

// Controller is the simulation as seen by the monitor.
type Controller interface {
	Snapshot() dining.Snapshot
	Step() (dining.StepResult, error)
	SetRunning(running bool) error
	SetStepMode(on bool)
	Reset()
	UpdateConfig(u dining.ConfigUpdate) error
	SetSpeedFactor(factor float64) error
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	controller Controller
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server   *http.Server
	listener net.Listener
}

// MinPortNumber is the lowest port the monitor accepts. Lower ports are
// replaced by a random one.
const MinPortNumber = 1000

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < MinPortNumber {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterController registers the simulation to monitor.
func (m *Monitor) RegisterController(c Controller) {
	m.controller = c
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router that serves the monitoring API.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", m.now).Methods(http.MethodGet)
	r.HandleFunc("/api/state", m.state).Methods(http.MethodGet)
	r.HandleFunc("/api/events", m.events).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", m.stats).Methods(http.MethodGet)
	r.HandleFunc("/api/philosopher/{id}", m.philosopherDetails).
		Methods(http.MethodGet)
	r.HandleFunc("/api/field/{json}", m.listFieldValue).
		Methods(http.MethodGet)
	r.HandleFunc("/api/step", m.step).Methods(http.MethodPost)
	r.HandleFunc("/api/run", m.run).Methods(http.MethodPost)
	r.HandleFunc("/api/pause", m.pause).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	r.HandleFunc("/api/stepmode", m.stepMode).Methods(http.MethodPost)
	r.HandleFunc("/api/speed", m.speed).Methods(http.MethodPost)
	r.HandleFunc("/api/config", m.config).Methods(http.MethodGet)
	r.HandleFunc("/api/config", m.updateConfig).Methods(http.MethodPost)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer starts the monitor as a web server with a custom port if wanted.
func (m *Monitor) StartServer() {
	listener, err := net.Listen("tcp", m.listenAddress())
	dieOnErr(err)

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.URL())

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()
}

func (m *Monitor) listenAddress() string {
	if m.portNumber < MinPortNumber {
		return ":0"
	}

	return ":" + strconv.Itoa(m.portNumber)
}

// URL returns the address of the running server.
func (m *Monitor) URL() string {
	if m.listener == nil {
		return ""
	}

	return fmt.Sprintf("http://localhost:%d",
		m.listener.Addr().(*net.TCPAddr).Port)
}

// OpenInBrowser opens the state of the simulation in the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.listener == nil {
		return errors.New("monitoring server is not started")
	}

	return browser.OpenURL(m.URL() + "/api/state")
}

// StopServer shuts the server down.
func (m *Monitor) StopServer() {
	if m.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := m.server.Shutdown(ctx)
	if err != nil {
		log.Printf("monitoring server shutdown: %v", err)
	}

	m.server = nil
	m.listener = nil
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.controller.Snapshot().Time
	fmt.Fprintf(w, "{\"now\":%d,\"now_ms\":%d}", int64(now), now.Milliseconds())
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.controller.Snapshot())
}

func (m *Monitor) events(w http.ResponseWriter, r *http.Request) {
	since := uint64(0)

	if s := r.URL.Query().Get("since"); s != "" {
		var err error

		since, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			badRequest(w, err)
			return
		}
	}

	events := []dining.Event{}
	for _, e := range m.controller.Snapshot().Events {
		if e.SequenceID > since {
			events = append(events, e)
		}
	}

	writeJSON(w, events)
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.controller.Snapshot().Stats)
}

func (m *Monitor) findPhilosopherOr404(
	w http.ResponseWriter,
	idStr string,
) *dining.PhilosopherSnapshot {
	id, err := strconv.Atoi(idStr)
	philosophers := m.controller.Snapshot().Philosophers

	if err != nil || id < 0 || id >= len(philosophers) {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Philosopher not found"))
		dieOnErr(err)

		return nil
	}

	return &philosophers[id]
}

func (m *Monitor) philosopherDetails(w http.ResponseWriter, r *http.Request) {
	p := m.findPhilosopherOr404(w, mux.Vars(r)["id"])
	if p == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(p)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	PhilosopherID string `json:"philosopher_id,omitempty"`
	FieldName     string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	p := m.findPhilosopherOr404(w, req.PhilosopherID)
	if p == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(p)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		badRequest(w, err)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) step(w http.ResponseWriter, _ *http.Request) {
	res, err := m.controller.Step()
	if err != nil {
		commandFailed(w, err)
		return
	}

	writeJSON(w, res)
}

func (m *Monitor) run(w http.ResponseWriter, _ *http.Request) {
	m.respond(w, m.controller.SetRunning(true))
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.respond(w, m.controller.SetRunning(false))
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	m.controller.Reset()
	m.respond(w, nil)
}

func (m *Monitor) stepMode(w http.ResponseWriter, r *http.Request) {
	on, err := strconv.ParseBool(r.URL.Query().Get("on"))
	if err != nil {
		badRequest(w, err)
		return
	}

	m.controller.SetStepMode(on)
	m.respond(w, nil)
}

func (m *Monitor) speed(w http.ResponseWriter, r *http.Request) {
	factor, err := strconv.ParseFloat(r.URL.Query().Get("factor"), 64)
	if err != nil {
		badRequest(w, err)
		return
	}

	m.respond(w, m.controller.SetSpeedFactor(factor))
}

func (m *Monitor) config(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.controller.Snapshot().Config)
}

func (m *Monitor) updateConfig(w http.ResponseWriter, r *http.Request) {
	u := dining.ConfigUpdate{}

	err := json.NewDecoder(r.Body).Decode(&u)
	if err != nil {
		badRequest(w, err)
		return
	}

	m.respond(w, m.controller.UpdateConfig(u))
}

// respond answers a command with the resulting state, or with the error.
func (m *Monitor) respond(w http.ResponseWriter, err error) {
	if err != nil {
		commandFailed(w, err)
		return
	}

	writeJSON(w, m.controller.Snapshot())
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second

	if s := r.URL.Query().Get("duration"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			badRequest(w, err)
			return
		}

		duration = d
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		commandFailed(w, err)
		return
	}

	time.Sleep(duration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func badRequest(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "Error: %s", err)
}

func commandFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, dining.ErrInvalidConfig) {
		badRequest(w, err)
		return
	}

	w.WriteHeader(http.StatusConflict)
	fmt.Fprintf(w, "Error: %s", err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
