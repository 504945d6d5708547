package models

import (
	"sync"
)

// Status is the UI shell state.
type Status int

const (
	StatusNoImage Status = iota
	StatusImageLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNoImage:
		return "no_image"
	case StatusImageLoaded:
		return "image_loaded"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of everything the UI shell shows. Produce a
// new one with Reduce; never mutate a State that has been published.
type State struct {
	Status Status
	// Original is never modified after load. Current is the working copy;
	// the two are the same handle because adjustments never write back.
	Original *ImageHandle
	Current  *ImageHandle
	Params   AdjustmentParameters
	Display  DisplayInfo
	Err      error
	// LoadSeq is the id of the most recent load request. Results carrying
	// any other id are stale.
	LoadSeq uint64
	Loading bool
}

func InitialState() State {
	return State{
		Status: StatusNoImage,
		Params: DefaultParameters(),
	}
}

// CanEdit reports whether parameter, render, export and reset operations apply.
func (s State) CanEdit() bool {
	return s.Status == StatusImageLoaded && s.Current != nil
}

// Action is an input to Reduce.
type Action interface {
	actionName() string
}

type LoadRequested struct {
	Seq uint64
}

type LoadSucceeded struct {
	Seq    uint64
	Handle *ImageHandle
}

type LoadFailed struct {
	Seq uint64
	Err error
}

type ParameterChanged struct {
	Key   ParameterKey
	Value interface{}
}

// ResetRequested restores the working image and parameters. Ignored without an image.
type ResetRequested struct{}

// DefaultsRestored puts the parameters back to defaults in any status.
type DefaultsRestored struct{}

// Rendered records the dimensions the render pipeline actually produced.
type Rendered struct {
	Size Dimensions
}

func (LoadRequested) actionName() string    { return "load_requested" }
func (LoadSucceeded) actionName() string    { return "load_succeeded" }
func (LoadFailed) actionName() string       { return "load_failed" }
func (ParameterChanged) actionName() string { return "parameter_changed" }
func (ResetRequested) actionName() string   { return "reset_requested" }
func (DefaultsRestored) actionName() string { return "defaults_restored" }
func (Rendered) actionName() string         { return "rendered" }

// ActionName is the stable name used in logs.
func ActionName(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionName()
}

// Reduce returns the state that follows s after a. It never mutates s and
// never frees image handles; callers compare handles before and after to
// decide what to release. The error is non-nil only for a ParameterChanged
// with an unknown key or mistyped value, in which case s is returned as is.
func Reduce(s State, a Action) (State, error) {
	switch act := a.(type) {
	case LoadRequested:
		if act.Seq <= s.LoadSeq {
			return s, nil
		}
		s.LoadSeq = act.Seq
		s.Loading = true
		return s, nil

	case LoadSucceeded:
		if act.Seq != s.LoadSeq || act.Handle == nil {
			return s, nil
		}
		s.Status = StatusImageLoaded
		s.Original = act.Handle
		s.Current = act.Handle
		s.Err = nil
		s.Loading = false
		s.Display = displayFor(act.Handle, s.Params.Resolution)
		return s, nil

	case LoadFailed:
		if act.Seq != s.LoadSeq {
			return s, nil
		}
		s.Status = StatusError
		s.Original = nil
		s.Current = nil
		s.Err = act.Err
		s.Loading = false
		s.Params = DefaultParameters()
		s.Display = DisplayInfo{}
		return s, nil

	case ParameterChanged:
		params, err := s.Params.With(act.Key, act.Value)
		if err != nil {
			return s, err
		}
		s.Params = params
		if act.Key == KeyResolution && s.CanEdit() {
			s.Display = displayFor(s.Current, params.Resolution)
		}
		return s, nil

	case ResetRequested:
		if !s.CanEdit() || s.Original == nil {
			return s, nil
		}
		s.Current = s.Original
		s.Params = DefaultParameters()
		s.Display = displayFor(s.Original, s.Params.Resolution)
		return s, nil

	case DefaultsRestored:
		s.Params = DefaultParameters()
		if s.CanEdit() {
			s.Display = displayFor(s.Current, s.Params.Resolution)
		}
		return s, nil

	case Rendered:
		if s.CanEdit() {
			s.Display.ProcessedSize = act.Size.Display()
		}
		return s, nil

	default:
		return s, nil
	}
}

// Store serialises access to the current State. Every change goes through
// Dispatch, so Reduce stays the single place where state transitions live.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: InitialState()}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a and returns the states before and after it.
func (s *Store) Dispatch(a Action) (prev, next State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state
	next, err = Reduce(prev, a)
	if err != nil {
		return prev, prev, err
	}
	s.state = next
	return prev, next, nil
}

// Get returns the current adjustment parameters.
func (s *Store) Get() AdjustmentParameters {
	return s.State().Params
}

// Set replaces a single parameter and returns the full updated set. Ranges
// are not checked.
func (s *Store) Set(key ParameterKey, value interface{}) (AdjustmentParameters, error) {
	_, next, err := s.Dispatch(ParameterChanged{Key: key, Value: value})
	return next.Params, err
}

// ResetToDefaults restores the default parameters and returns them.
func (s *Store) ResetToDefaults() AdjustmentParameters {
	_, next, _ := s.Dispatch(DefaultsRestored{})
	return next.Params
}
