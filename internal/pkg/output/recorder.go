package output

import (
	"fmt"
	"sync"

	"github.com/holoplot/go-evdev"
)

type RecordType int

const (
	RecordKey RecordType = iota
	RecordAxis
	RecordMouse
)

// Record is one report received by Recorder
type Record struct {
	Type    RecordType
	Code    evdev.EvCode
	Pressed bool
	Value   int32
	DX, DY  int32
}

func (r Record) String() string {
	switch r.Type {
	case RecordKey:
		state := "up"
		if r.Pressed {
			state = "down"
		}
		return fmt.Sprintf("%s %s", evdev.CodeName(evdev.EV_KEY, r.Code), state)
	case RecordAxis:
		return fmt.Sprintf("%s=%d", evdev.CodeName(evdev.EV_ABS, r.Code), r.Value)
	default:
		return fmt.Sprintf("mouse(%d,%d)", r.DX, r.DY)
	}
}

func Key(code evdev.EvCode, pressed bool) Record {
	return Record{Type: RecordKey, Code: code, Pressed: pressed}
}

func Axis(code evdev.EvCode, value int32) Record {
	return Record{Type: RecordAxis, Code: code, Value: value}
}

func Mouse(dx, dy int32) Record {
	return Record{Type: RecordMouse, DX: dx, DY: dy}
}

// Tap is a key press immediately followed by its release
func Tap(code evdev.EvCode) []Record {
	return []Record{Key(code, true), Key(code, false)}
}

// Recorder keeps every report in memory, a non-nil Err fails every call
type Recorder struct {
	mu      sync.Mutex
	records []Record
	closed  bool

	Err error
}

func (r *Recorder) add(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *Recorder) EmitKey(code evdev.EvCode, pressed bool) error {
	return r.add(Key(code, pressed))
}

func (r *Recorder) EmitAxis(code evdev.EvCode, value int32) error {
	return r.add(Axis(code, value))
}

func (r *Recorder) EmitMouseDelta(dx, dy int32) error {
	return r.add(Mouse(dx, dy))
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Records returns a copy of everything recorded so far
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Take returns recorded reports and forgets them
func (r *Recorder) Take() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.records
	r.records = nil
	return records
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
