package widgetcontroller

import (
	"fmt"
	"net/url"
	"sync"

	"now-hiring/internal/common/logger"
)

// Controller is the host-page side of the widget: a trigger that opens the
// embedded form and closes it again when the form posts CloseSignal.
//
// All methods are safe for concurrent use; the auto-open timer fires on its
// own goroutine.
type Controller struct {
	config    *Config
	host      Host
	hostURL   *url.URL
	markers   MarkerStore
	scheduler Scheduler
	logger    logger.Logger

	mu        sync.Mutex
	attached  bool
	state     State
	placement Placement
	frameSrc  string
	minimized bool
	dismissed bool
	pending   Stopper
	// generation invalidates timer callbacks that lost a race with Stop.
	generation int
}

// New validates the host URL and returns a detached controller.
func New(config *Config, host Host, markers MarkerStore, scheduler Scheduler, log logger.Logger) (*Controller, error) {
	u, err := url.Parse(host.URL)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHostURL, host.URL)
	}
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Controller{
		config:    config,
		host:      host,
		hostURL:   u,
		markers:   markers,
		scheduler: scheduler,
		logger:    log.WithFields(map[string]interface{}{"component": "widget-controller"}),
		state:     Collapsed,
	}, nil
}

// FrameSrc is the embedded form's address for a host page.
func FrameSrc(origin, hostURL string) string {
	return origin + EmbedPath + "?" + url.Values{"source": {hostURL}}.Encode()
}

// Attach mounts the trigger and, on the root page of a browser without the
// marker, schedules the automatic open.
func (c *Controller) Attach() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attached {
		return ErrAlreadyAttached
	}
	c.attached = true
	c.placement = Floating
	if c.host.HasFooter {
		c.placement = Docked
	}
	c.frameSrc = FrameSrc(c.config.Origin, c.host.URL)

	if !c.isRootPage() || c.seen() {
		return nil
	}

	c.generation++
	gen := c.generation
	c.pending = c.scheduler.AfterFunc(c.config.AutoOpenDelay, func() { c.autoOpen(gen) })
	c.logger.Debug("auto-open scheduled", map[string]interface{}{"delay": c.config.AutoOpenDelay.String()})
	return nil
}

// Activate handles a click on the trigger.
func (c *Controller) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.attached {
		return ErrNotAttached
	}
	if c.dismissed {
		return nil
	}
	c.cancelPending()
	c.state = Open
	return nil
}

// HandleMessage applies a message posted to the host window and reports
// whether it was the close signal. Anything else, or anything from another
// origin, is ignored.
func (c *Controller) HandleMessage(msg Message) bool {
	if msg.Data != CloseSignal || msg.Origin != c.config.Origin {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelPending()
	c.state = Collapsed
	c.minimized = true

	if c.markers != nil {
		if err := c.markers.Set(c.config.MarkerKey, MarkerValue); err != nil {
			c.logger.Warn("failed to record widget marker", map[string]interface{}{"error": err})
		}
	}
	return true
}

// Dismiss hides the trigger for the rest of the page view. The dismiss
// control is not offered once the trigger is minimized.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.minimized || c.state == Open {
		return
	}
	c.cancelPending()
	c.dismissed = true
}

// Detach stops any pending automatic open.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPending()
	c.attached = false
}

// View returns the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		State:           c.state,
		Placement:       c.placement,
		FrameSrc:        c.frameSrc,
		TriggerVisible:  c.attached && !c.dismissed,
		Minimized:       c.minimized,
		ScrollLocked:    c.state == Open,
		AutoOpenPending: c.pending != nil,
	}
}

func (c *Controller) autoOpen(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.pending == nil {
		return
	}
	c.pending = nil
	if c.state != Collapsed || c.dismissed || c.seen() {
		return
	}
	c.state = Open
	c.logger.Info("widget auto-opened", map[string]interface{}{"host": c.host.URL})
}

// cancelPending requires c.mu.
func (c *Controller) cancelPending() {
	if c.pending == nil {
		return
	}
	c.pending.Stop()
	c.pending = nil
	c.generation++
}

func (c *Controller) seen() bool {
	if c.markers == nil {
		return false
	}
	v, ok := c.markers.Get(c.config.MarkerKey)
	return ok && v == MarkerValue
}

func (c *Controller) isRootPage() bool {
	path := c.hostURL.Path
	if path == "" {
		path = "/"
	}
	root := c.config.RootPath
	if root == "" {
		root = "/"
	}
	return path == root
}
