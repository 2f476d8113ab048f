package schedule

import "time"

// Status is the lifecycle state of an editable schedule overlay.
type Status string

const (
	// StatusReadonly mirrors the generator output; nothing is mutable.
	StatusReadonly Status = "readonly"
	// StatusEditing holds a cloned working copy accepting cell edits.
	StatusEditing Status = "editing"
	// StatusApplied froze the working copy; its totals were pushed to the
	// annual planning. Further edits need a new StartEditing.
	StatusApplied Status = "applied"
)

// Field names an editable attribute of a day slot.
type Field string

const (
	FieldStart   Field = "start"
	FieldEnd     Field = "end"
	FieldWorking Field = "working"
)

// ActionKind discriminates editor actions.
type ActionKind string

const (
	ActionStartEditing ActionKind = "start_editing"
	ActionEditCell     ActionKind = "edit_cell"
	ActionReset        ActionKind = "reset"
	ActionApply        ActionKind = "apply"
)

// Action is one editor transition request. EmployeeID, Day, Field and the
// value fields only matter for ActionEditCell.
type Action struct {
	Kind       ActionKind
	EmployeeID string
	Day        time.Weekday
	Field      Field
	Time       MinuteOfDay
	Working    bool
}

// EditorState is the explicit tagged state of the schedule editor. It is a
// value; Reduce never mutates its input, so states can be kept, compared and
// replayed freely in tests.
type EditorState struct {
	Status       Status
	Baseline     []WeeklySchedule
	Working      []WeeklySchedule
	BreakMinutes int
}

// NewEditorState wraps a generator baseline in a readonly editor.
func NewEditorState(baseline []WeeklySchedule, breakMinutes int) EditorState {
	return EditorState{
		Status:       StatusReadonly,
		Baseline:     cloneSchedules(baseline),
		BreakMinutes: breakMinutes,
	}
}

// Schedules returns the week currently visible to the operator: the working
// copy while editing or applied, otherwise the baseline.
func (s EditorState) Schedules() []WeeklySchedule {
	if s.Status == StatusReadonly {
		return cloneSchedules(s.Baseline)
	}
	return cloneSchedules(s.Working)
}

// Reduce applies one action to the editor state and returns the next state.
//
// Invalid actions are no-ops returning the prior state unchanged: an edit
// outside editing status, an unknown employee, a day outside the canonical
// seven, or an unknown field. An edit recomputes only the touched employee's
// weekly total, as max(0, end-start-break) summed over working days.
func Reduce(state EditorState, action Action) EditorState {
	switch action.Kind {
	case ActionStartEditing:
		switch state.Status {
		case StatusReadonly:
			state.Working = cloneSchedules(state.Baseline)
		case StatusApplied:
			// The applied copy becomes the new baseline to edit from.
			state.Baseline = cloneSchedules(state.Working)
			state.Working = cloneSchedules(state.Baseline)
		default:
			return state
		}
		state.Status = StatusEditing
		return state

	case ActionEditCell:
		if state.Status != StatusEditing {
			return state
		}
		dayIdx := DayIndex(action.Day)
		if dayIdx < 0 {
			return state
		}
		schedIdx := -1
		for i := range state.Working {
			if state.Working[i].EmployeeID == action.EmployeeID {
				schedIdx = i
				break
			}
		}
		if schedIdx < 0 {
			return state
		}

		working := cloneSchedules(state.Working)
		slot := &working[schedIdx].Days[dayIdx]
		switch action.Field {
		case FieldStart:
			slot.Start = action.Time
		case FieldEnd:
			slot.End = action.Time
		case FieldWorking:
			slot.Working = action.Working
		default:
			return state
		}
		working[schedIdx].TotalWeeklyHours = weeklyTotal(working[schedIdx], state.BreakMinutes)
		state.Working = working
		return state

	case ActionReset:
		if state.Status != StatusEditing {
			return state
		}
		state.Status = StatusReadonly
		state.Working = nil
		return state

	case ActionApply:
		if state.Status != StatusEditing {
			return state
		}
		state.Status = StatusApplied
		return state

	default:
		return state
	}
}

// weeklyTotal sums the seven day contributions of one schedule. A day where
// the end does not land after the start contributes zero, never a negative.
func weeklyTotal(sched WeeklySchedule, breakMinutes int) float64 {
	totalMinutes := 0
	for _, slot := range sched.Days {
		if !slot.Working {
			continue
		}
		net := int(slot.End-slot.Start) - breakMinutes
		if net < 0 {
			net = 0
		}
		totalMinutes += net
	}
	return roundHours(float64(totalMinutes) / 60)
}

func cloneSchedules(schedules []WeeklySchedule) []WeeklySchedule {
	if schedules == nil {
		return nil
	}
	out := make([]WeeklySchedule, len(schedules))
	copy(out, schedules)
	return out
}
