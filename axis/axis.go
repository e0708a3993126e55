package axis

// DefaultLimit is the travel bound, in millimeters, used when no
// limit is configured.
const DefaultLimit = 80

// Device tracks the authoritative state of a single linear axis:
// the current position in millimeters, the fixed travel limit, and
// whether the axis has been homed.
//
// A Device is not safe for concurrent use; all calls are expected to
// come from a single owner (see stage.Controller).
type Device struct {
	pos   float64
	limit float64
	homed bool
}

// NewDevice returns a Device at position zero, not homed, with the
// given travel limit. A negative limit is treated as zero travel.
func NewDevice(limit float64) *Device {
	if limit < 0 {
		limit = 0
	}
	return &Device{limit: limit}
}

// Home moves the axis to the zero reference and marks it homed.
// Calling it again has no further effect.
func (d *Device) Home() {
	d.pos = 0
	d.homed = true
}

// SetPosition moves the axis to target, clamped into [0, Limit].
//
// Targets below zero clamp to zero and targets above the limit clamp
// to the limit. A NaN target matches none of the branches and leaves
// the position unchanged.
func (d *Device) SetPosition(target float64) {
	if target < 0 {
		d.pos = 0
	} else if target <= d.limit {
		d.pos = target
	} else if target > d.limit {
		d.pos = d.limit
	}
}

// Position returns the current position in millimeters.
func (d *Device) Position() float64 { return d.pos }

// Homed reports whether the axis has been homed since startup.
func (d *Device) Homed() bool { return d.homed }

// Limit returns the fixed travel bound in millimeters.
func (d *Device) Limit() float64 { return d.limit }
