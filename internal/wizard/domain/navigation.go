package domain

// Next marks the current step completed and moves forward. It fails without
// changing anything when the current step's predicate does not hold.
func Next(s State) (State, error) {
	if s.Current >= LastStep {
		return s, ErrInvalidStep
	}
	if !IsStepComplete(s, s.Current) {
		return s, ErrStepIncomplete
	}
	s.Completed[s.Current-1] = true
	s.Current++
	return s, nil
}

// Prev moves back one step. Completion flags are left as they are.
func Prev(s State) (State, error) {
	if s.Current <= FirstStep {
		return s, ErrInvalidStep
	}
	s.Current--
	return s, nil
}

// GoTo jumps to any step at or before the current one, or to the step right
// after it once the current step is marked completed.
func GoTo(s State, step Step) (State, error) {
	switch {
	case !step.Valid():
		return s, ErrInvalidStep
	case step <= s.Current:
	case step == s.Current+1 && s.IsCompleted(s.Current):
	default:
		return s, ErrStepLocked
	}
	s.Current = step
	return s, nil
}
