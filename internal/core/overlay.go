package core

import "time"

const DefaultOverlayTimeout = 4000 * time.Millisecond

// OverlayTimer decides when the call overlay is shown.
//
// The overlay hides after Timeout of pointer inactivity. The hide timer is
// armed only while neither the share popover nor the drawer is open.
type OverlayTimer struct {
	sched   Scheduler
	timeout time.Duration
	onHide  func()

	visible    bool
	shareOpen  bool
	drawerOpen bool
	pending    Timer
	stopped    bool
}

// NewOverlayTimer returns a timer in the Visible state. onHide runs when the
// overlay auto-hides.
func NewOverlayTimer(sched Scheduler, timeout time.Duration, onHide func()) *OverlayTimer {
	if timeout <= 0 {
		timeout = DefaultOverlayTimeout
	}
	return &OverlayTimer{sched: sched, timeout: timeout, onHide: onHide, visible: true}
}

func (o *OverlayTimer) Visible() bool    { return o.visible }
func (o *OverlayTimer) ShareOpen() bool  { return o.shareOpen }
func (o *OverlayTimer) DrawerOpen() bool { return o.drawerOpen }
func (o *OverlayTimer) Armed() bool      { return o.pending != nil }

// Start shows the overlay and arms the hide timer.
func (o *OverlayTimer) Start() {
	o.stopped = false
	o.visible = true
	o.arm()
}

// Activity is a qualifying pointer movement over the main surface.
// Movements over the thumbnail strip must not be reported.
func (o *OverlayTimer) Activity() {
	if o.stopped || o.shareOpen || o.drawerOpen {
		return
	}
	o.visible = true
	o.arm()
}

// ShareOpened keeps the overlay up for the popover's lifetime.
func (o *OverlayTimer) ShareOpened() {
	o.cancel()
	o.shareOpen = true
	o.visible = true
}

func (o *OverlayTimer) ShareClosed() {
	o.shareOpen = false
	if !o.drawerOpen {
		o.arm()
	}
}

// ToggleDrawer opens or closes the drawer. The overlay is forced visible in
// both cases; the hide timer is re-armed only once the drawer is closed.
func (o *OverlayTimer) ToggleDrawer() {
	o.visible = true
	o.drawerOpen = !o.drawerOpen
	o.cancel()
	if !o.drawerOpen {
		o.arm()
	}
}

// Stop cancels the pending hide for good.
func (o *OverlayTimer) Stop() {
	o.stopped = true
	o.cancel()
}

func (o *OverlayTimer) arm() {
	o.cancel()
	if o.stopped || o.shareOpen || o.drawerOpen {
		return
	}
	var t Timer
	t = o.sched.AfterFunc(o.timeout, func() {
		if o.stopped || o.pending != t {
			return
		}
		o.pending = nil
		o.visible = false
		if o.onHide != nil {
			o.onHide()
		}
	})
	o.pending = t
}

func (o *OverlayTimer) cancel() {
	if o.pending != nil {
		o.pending.Stop()
		o.pending = nil
	}
}
