package flow

// Step identifies one position in a wizard flow.
type Step string

// Guard is an entry precondition for a step. When it is not satisfied, the
// machine redirects to the fallback step instead of surfacing an error.
type Guard[S any] func(state S) (ok bool, fallback Step)

// Definition describes a linear wizard: an ordered step list, the initial
// step, and per-step entry guards. Both the registration and the booking
// wizard are instances of this shape.
type Definition[S any] struct {
	Steps   []Step
	Initial Step
	Guards  map[Step]Guard[S]
}

// NavigationSource is an external position feed (URL query parameter,
// browser history pop). The machine consumes it through the same guarded
// resolution used for programmatic navigation, so guards apply uniformly.
type NavigationSource interface {
	CurrentPosition() string
}

// Machine drives step transitions for one wizard definition. It holds no
// per-user state; the current step is derived from the caller's state on
// every entry.
type Machine[S any] struct {
	def Definition[S]
}

func NewMachine[S any](def Definition[S]) *Machine[S] {
	return &Machine[S]{def: def}
}

// Initial returns the entry step of the flow.
func (m *Machine[S]) Initial() Step {
	return m.def.Initial
}

// Steps returns the ordered step list.
func (m *Machine[S]) Steps() []Step {
	return m.def.Steps
}

// Index returns the position of a step in the flow, or -1 for unknown steps.
func (m *Machine[S]) Index(step Step) int {
	for i, s := range m.def.Steps {
		if s == step {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the step is the last one in the flow.
func (m *Machine[S]) IsTerminal(step Step) bool {
	n := len(m.def.Steps)
	return n > 0 && m.def.Steps[n-1] == step
}

// Resolve maps a raw external step value to the step the user is actually
// allowed to be on. Unknown values fall back to the initial step; guard
// violations walk the fallback chain until a satisfiable step is found.
// This is the single entry point for both direct URL navigation and
// programmatic transitions, so no path can bypass the guards.
func (m *Machine[S]) Resolve(raw string, state S) Step {
	step := Step(raw)
	if m.Index(step) < 0 {
		step = m.def.Initial
	}
	return m.applyGuards(step, state)
}

// Sync resolves the position reported by an external navigation source.
func (m *Machine[S]) Sync(src NavigationSource, state S) Step {
	return m.Resolve(src.CurrentPosition(), state)
}

// Next moves one step forward from current, re-validating guards on the
// target. From the last step it stays put.
func (m *Machine[S]) Next(current Step, state S) Step {
	idx := m.Index(current)
	if idx < 0 {
		return m.applyGuards(m.def.Initial, state)
	}
	if idx+1 >= len(m.def.Steps) {
		return m.applyGuards(current, state)
	}
	return m.applyGuards(m.def.Steps[idx+1], state)
}

// Back moves exactly one step earlier, never skipping. From the first step
// it stays put.
func (m *Machine[S]) Back(current Step, state S) Step {
	idx := m.Index(current)
	if idx <= 0 {
		return m.applyGuards(m.def.Initial, state)
	}
	return m.applyGuards(m.def.Steps[idx-1], state)
}

// applyGuards walks the fallback chain until a step whose guard is
// satisfied. The visited set caps the walk in case a definition wires a
// fallback cycle.
func (m *Machine[S]) applyGuards(step Step, state S) Step {
	visited := make(map[Step]struct{}, len(m.def.Steps))
	for {
		if _, seen := visited[step]; seen {
			return m.def.Initial
		}
		visited[step] = struct{}{}

		guard, ok := m.def.Guards[step]
		if !ok {
			return step
		}
		satisfied, fallback := guard(state)
		if satisfied {
			return step
		}
		if m.Index(fallback) < 0 {
			return m.def.Initial
		}
		step = fallback
	}
}
