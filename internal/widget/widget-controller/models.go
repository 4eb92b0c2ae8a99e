package widgetcontroller

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrAlreadyAttached = errors.New("widget already attached")
	ErrNotAttached     = errors.New("widget not attached")
	ErrInvalidHostURL  = errors.New("invalid host url")
)

// State is the host-page visibility of the embedded form.
type State string

const (
	Collapsed State = "collapsed"
	Open      State = "open"
)

// Placement is where the trigger is mounted on the host page.
type Placement string

const (
	// Docked mounts the trigger inside the page footer.
	Docked Placement = "docked"
	// Floating mounts it on the page body.
	Floating Placement = "floating"
)

// Host describes the page the widget is installed on.
type Host struct {
	URL       string
	HasFooter bool
}

// Message is one cross-document message received by the host window.
type Message struct {
	Origin string
	Data   string
}

// View is a read-only snapshot of the controller.
type View struct {
	State           State
	Placement       Placement
	FrameSrc        string
	TriggerVisible  bool
	Minimized       bool
	ScrollLocked    bool
	AutoOpenPending bool
}

// MarkerStore is the browser-scoped durable storage for the "already seen" marker.
type MarkerStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MarkerValue is what the close signal writes under the marker key.
const MarkerValue = "true"

// MemoryMarkers is a MarkerStore held in memory.
type MemoryMarkers struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryMarkers() *MemoryMarkers {
	return &MemoryMarkers{values: make(map[string]string)}
}

func (m *MemoryMarkers) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryMarkers) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Stopper cancels a scheduled call.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}
