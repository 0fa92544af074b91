package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testPool = []string{"Cat", "Dog", "Catapult", "cattle"}

func TestControllerStartsIdle(t *testing.T) {
	c := NewController(testPool, 8)
	if c.State() != SuggestIdle {
		t.Errorf("Expected idle, got %s", c.State())
	}
	if _, ok := c.Active(); ok {
		t.Error("Expected no active index while idle")
	}
	if c.Matches() != nil {
		t.Error("Expected no matches while idle")
	}
}

func TestControllerFocus(t *testing.T) {
	c := NewController(testPool, 8)
	c.Focus()
	if c.State() != SuggestFocusedNoMatches {
		t.Errorf("Empty query should focus without matches, got %s", c.State())
	}

	c.SetQuery("cat")
	c.Dismiss()
	c.Focus()
	if c.State() != SuggestFocusedWithMatches {
		t.Fatalf("Expected matches after refocus, got %s", c.State())
	}
	if i, _ := c.Active(); i != 0 {
		t.Errorf("Expected active index 0, got %d", i)
	}
}

func TestControllerQueryChange(t *testing.T) {
	c := NewController(testPool, 8)
	c.SetQuery("cat")
	if c.State() != SuggestFocusedWithMatches {
		t.Fatalf("Query change should focus, got %s", c.State())
	}
	if diff := cmp.Diff([]string{"Cat", "Catapult", "cattle"}, c.Matches()); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	c.Next()
	c.SetQuery("catt")
	if i, _ := c.Active(); i != 0 {
		t.Errorf("Query change should reset the active index, got %d", i)
	}

	c.SetQuery("zebra")
	if c.State() != SuggestFocusedNoMatches {
		t.Errorf("Expected no matches, got %s", c.State())
	}
}

func TestControllerNavigationWraps(t *testing.T) {
	c := NewController(testPool, 8)
	c.SetQuery("cat")

	steps := []struct {
		move func()
		want int
	}{
		{c.Next, 1},
		{c.Next, 2},
		{c.Next, 0},
		{c.Prev, 2},
		{c.Prev, 1},
	}
	for i, step := range steps {
		step.move()
		if got, _ := c.Active(); got != step.want {
			t.Errorf("step %d: expected active %d, got %d", i, step.want, got)
		}
	}
}

func TestControllerNavigationIgnoredWithoutMatches(t *testing.T) {
	c := NewController(testPool, 8)
	c.Next()
	c.Prev()
	if c.State() != SuggestIdle {
		t.Errorf("Arrows should not leave idle, got %s", c.State())
	}
	if _, ok := c.Commit(); ok {
		t.Error("Commit should be ignored while idle")
	}

	c.SetQuery("zebra")
	c.Next()
	if _, ok := c.Commit(); ok {
		t.Error("Commit should be ignored without matches")
	}
	if c.State() != SuggestFocusedNoMatches {
		t.Errorf("Expected focused-no-matches, got %s", c.State())
	}
}

func TestControllerCommit(t *testing.T) {
	c := NewController(testPool, 8)
	c.SetQuery("cat")
	c.Next()

	got, ok := c.Commit()
	if !ok || got != "Catapult" {
		t.Errorf("Expected Catapult, got %q (%v)", got, ok)
	}
	if c.State() != SuggestIdle {
		t.Errorf("Commit should return to idle, got %s", c.State())
	}
	if c.Query() != "Catapult" {
		t.Errorf("Commit should set the query, got %q", c.Query())
	}
}

func TestControllerDismiss(t *testing.T) {
	c := NewController(testPool, 8)
	c.SetQuery("cat")
	c.Next()
	c.Dismiss()
	if c.State() != SuggestIdle {
		t.Errorf("Expected idle after dismiss, got %s", c.State())
	}

	c.Focus()
	if i, _ := c.Active(); i != 0 {
		t.Errorf("Dismiss should discard the active index, got %d", i)
	}
	if c.Query() != "cat" {
		t.Errorf("Dismiss should keep the query, got %q", c.Query())
	}
}

func TestControllerPick(t *testing.T) {
	c := NewController(testPool, 8)
	c.SetQuery("cat")

	if _, ok := c.Pick(5); ok {
		t.Error("Out of range pick should be ignored")
	}
	got, ok := c.Pick(2)
	if !ok || got != "cattle" {
		t.Errorf("Expected cattle, got %q (%v)", got, ok)
	}
	if c.State() != SuggestIdle {
		t.Errorf("Pick should return to idle, got %s", c.State())
	}

	// A pick delivered after the blur it caused has nothing left to select
	c.SetQuery("cat")
	c.Dismiss()
	if _, ok := c.Pick(0); ok {
		t.Error("Pick after dismiss should be ignored")
	}
}

func TestControllerLimit(t *testing.T) {
	c := NewController(testPool, 2)
	c.SetQuery("cat")
	if diff := cmp.Diff([]string{"Cat", "Catapult"}, c.Matches()); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerSetPool(t *testing.T) {
	c := NewController(testPool, 8)
	c.SetQuery("do")
	c.Next()

	c.SetPool([]string{"Docs", "Dogs", "Door"})
	if diff := cmp.Diff([]string{"Docs", "Dogs", "Door"}, c.Matches()); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
	if i, _ := c.Active(); i != 0 {
		t.Errorf("Expected active reset, got %d", i)
	}

	c.Dismiss()
	c.SetPool(nil)
	if c.State() != SuggestIdle {
		t.Errorf("SetPool should not focus an idle box, got %s", c.State())
	}
}
