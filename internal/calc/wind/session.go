package wind

// Session owns the most recent result of an interactive caller. A failed
// run leaves the previous result in place.
type Session struct {
	Options   Options
	Direction Direction

	last *Result
}

func NewSession(opts Options) *Session {
	return &Session{Options: opts.withDefaults(), Direction: Longitudinal}
}

// Run calculates raw and, on success, replaces the held result.
func (s *Session) Run(raw RawInput) (Result, error) {
	res, err := Calculate(raw, s.Options)
	if err != nil {
		return Result{}, err
	}
	s.last = &res
	return res, nil
}

// Last returns the held result, if any.
func (s *Session) Last() (Result, bool) {
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Selected returns the held result's rows for the selected direction.
func (s *Session) Selected() (DirectionResult, bool) {
	res, ok := s.Last()
	if !ok {
		return DirectionResult{}, false
	}
	return res.Direction(s.Direction), true
}
