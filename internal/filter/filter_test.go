package filter

import (
	"reflect"
	"testing"

	"github.com/WendelRafael/todo-go/internal/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: 1, Title: "Buy milk", Description: "two liters", Date: "2025-01-10"},
		{ID: 2, Title: "Call mom", Description: "", Date: "", Completed: true},
		{ID: 3, Title: "Write report", Description: "quarterly numbers", Date: "2025-02-01"},
		{ID: 4, Title: "buy bread", Description: "", Date: "2025-01-11", Completed: true},
	}
}

func ids(tasks []models.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestStatusFilter(t *testing.T) {
	tasks := sampleTasks()

	cases := []struct {
		name   string
		status Status
		want   []int
	}{
		{"all", All, []int{1, 2, 3, 4}},
		{"pending", Pending, []int{1, 3}},
		{"completed", Completed, []int{2, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Apply(tasks, Query{Status: tc.status}))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("status %v: got %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

func TestTextSearchIsCaseInsensitive(t *testing.T) {
	tasks := sampleTasks()

	got := ids(Apply(tasks, Query{Term: "BUY"}))
	want := []int{1, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("term BUY: got %v, want %v", got, want)
	}
}

func TestTextSearchMatchesDescription(t *testing.T) {
	tasks := sampleTasks()

	got := ids(Apply(tasks, Query{Term: "quarterly"}))
	want := []int{3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("term quarterly: got %v, want %v", got, want)
	}
}

func TestEmptyTermMatchesEverything(t *testing.T) {
	tasks := sampleTasks()

	got := Apply(tasks, Query{})
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("empty query changed the collection: got %v", got)
	}
}

func TestDateTermExcludesUndatedTasks(t *testing.T) {
	tasks := sampleTasks()

	// task 2 has no date: it must not match a non-empty date term
	got := ids(Apply(tasks, Query{DateTerm: "2025"}))
	want := []int{1, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("date term 2025: got %v, want %v", got, want)
	}

	// but it passes when the date term is empty
	got = ids(Apply(tasks, Query{DateTerm: ""}))
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("empty date term: got %v", got)
	}
}

func TestCombinedQueryPreservesOrder(t *testing.T) {
	tasks := sampleTasks()

	got := ids(Apply(tasks, Query{Status: Completed, Term: "b", DateTerm: "01-1"}))
	want := []int{4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("combined query: got %v, want %v", got, want)
	}
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	tasks := sampleTasks()
	before := make([]models.Task, len(tasks))
	copy(before, tasks)

	Apply(tasks, Query{Status: Pending, Term: "buy"})

	if !reflect.DeepEqual(tasks, before) {
		t.Fatalf("source collection was mutated")
	}
}
