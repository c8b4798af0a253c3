package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/psiscan/internal/model"
)

type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, res *model.FileResult) error
	callCount int
}

func (m *mockStep) Do(ctx context.Context, res *model.FileResult) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, res)
	}
	return nil
}

func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	p := New()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.StepCount() != 0 {
		t.Errorf("expected 0 steps, got %d", p.StepCount())
	}
	if p.textSource != TextSourceSections {
		t.Errorf("expected default text source %q, got %q", TextSourceSections, p.textSource)
	}
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "only"})
		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(&mockStep{name: "first"}, &mockStep{name: "second"})
		p.AddStep(&mockStep{name: "third"})

		want := []string{"first", "second", "third"}
		got := p.StepNames()
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("step %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.FileResult) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("a"), record("b"), record("c"))

		res := model.NewFileResult("cv.json", nil)
		if err := p.Execute(context.Background(), res); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 3 || order[0] != "a" || order[2] != "c" {
			t.Errorf("unexpected execution order %v", order)
		}
		if len(res.Steps) != 3 {
			t.Errorf("expected 3 recorded steps, got %v", res.Steps)
		}
	})

	t.Run("stops at first failing step", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.FileResult) error {
			return boom
		}}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(&mockStep{name: "before"}, failing, after)

		res := model.NewFileResult("cv.json", nil)
		err := p.Execute(context.Background(), res)

		var stepErr *StepError
		if !errors.As(err, &stepErr) {
			t.Fatalf("expected *StepError, got %T", err)
		}
		if stepErr.Step != "failing" {
			t.Errorf("expected failing step name, got %q", stepErr.Step)
		}
		if !errors.Is(err, boom) {
			t.Error("expected error to wrap the step's error")
		}
		if after.callCount != 0 {
			t.Error("expected steps after the failure not to run")
		}
		if len(res.Steps) != 1 || res.Steps[0] != "before" {
			t.Errorf("expected only the completed step recorded, got %v", res.Steps)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New()
		p.AddStep(step)

		err := p.Execute(ctx, model.NewFileResult("cv.json", nil))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected no step to run after cancellation")
		}
	})
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"recognition", &StepError{Step: "ner", Err: ErrRecognition}, true},
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"other", &StepError{Step: "assemble", Err: ErrNoRecord}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
