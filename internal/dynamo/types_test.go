package dynamo

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{0.5, 0, 2.25, 0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{math.Inf(-1), 1.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := State{1, 2, 3, 4}
	c := s.Clone()
	c[0] = 99
	if s[0] != 1 {
		t.Errorf("Clone shares storage: original changed to %v", s[0])
	}
}

func TestTrajectory_Column(t *testing.T) {
	tr := &Trajectory{
		Times:  []float64{0, 1},
		States: []State{{1, 2, 3, 4}, {5, 6, 7, 8}},
	}
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	x2 := tr.Column(2)
	if x2[0] != 3 || x2[1] != 7 {
		t.Errorf("Column(2) = %v, want [3 7]", x2)
	}
}

func TestTrajectory_ColumnShortState(t *testing.T) {
	tr := &Trajectory{
		Times:  []float64{0, 1},
		States: []State{{1, 2, 3, 4}, {5, 6}},
	}
	defer func() {
		if recover() == nil {
			t.Error("Column(2) on a short state did not panic")
		}
	}()
	tr.Column(2)
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 12, Time: 1.5, Wrapped: ErrStepTooSmall}
	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("SimulationError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "step 12 (t=1.5)") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
