package renderer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractFields(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "dedup in first-seen order",
			body:     "<input>A</input><input>B</input><input>A</input>",
			expected: []string{"A", "B"},
		},
		{
			name:     "labels are trimmed",
			body:     "Post for <input> platform </input> about <input>platform</input>",
			expected: []string{"platform"},
		},
		{
			name:     "tags are case-insensitive",
			body:     "<INPUT>Name</Input> and <input>Topic</INPUT>",
			expected: []string{"Name", "Topic"},
		},
		{
			name:     "labels are case-sensitive",
			body:     "<input>name</input><input>Name</input>",
			expected: []string{"name", "Name"},
		},
		{
			name:     "no markers",
			body:     "Review the following code: [Paste your code here]",
			expected: []string{},
		},
		{
			name:     "unterminated marker",
			body:     "Hello <input>Name",
			expected: []string{},
		},
		{
			name:     "nested marker keeps inner",
			body:     "<input>outer <input>inner</input>",
			expected: []string{"inner"},
		},
		{
			name:     "marker across a line break",
			body:     "<input>first\nline</input> then <input>ok</input>",
			expected: []string{"ok"},
		},
		{
			name:     "non-greedy",
			body:     "<input>a</input> middle <input>b</input>",
			expected: []string{"a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractFields(tc.body)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("ExtractFields(%q) mismatch (-want +got):\n%s", tc.body, diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	body := "Hi <input>Name</input>, bye <input>Name</input>"

	testCases := []struct {
		name     string
		body     string
		values   map[string]string
		expected string
	}{
		{
			name:     "fallback for every occurrence",
			body:     body,
			values:   map[string]string{},
			expected: "Hi [Name], bye [Name]",
		},
		{
			name:     "value for every occurrence",
			body:     body,
			values:   map[string]string{"Name": "Ada"},
			expected: "Hi Ada, bye Ada",
		},
		{
			name:     "empty value falls back",
			body:     body,
			values:   map[string]string{"Name": ""},
			expected: "Hi [Name], bye [Name]",
		},
		{
			name:     "nil values",
			body:     "Plan for <input> platform </input>",
			values:   nil,
			expected: "Plan for [platform]",
		},
		{
			name:     "label lookup is case-sensitive",
			body:     "<input>name</input> <input>Name</input>",
			values:   map[string]string{"Name": "Ada"},
			expected: "[name] Ada",
		},
		{
			name:     "mixed-case tags replaced",
			body:     "<INPUT>Brand</input>!",
			values:   map[string]string{"Brand": "Acme"},
			expected: "Acme!",
		},
		{
			name:     "malformed markers stay literal",
			body:     "Hello <input>Name and <input>x\ny</input>",
			values:   map[string]string{"Name": "Ada"},
			expected: "Hello <input>Name and <input>x\ny</input>",
		},
		{
			name:     "no markers returns body",
			body:     "Plain prompt",
			values:   map[string]string{"x": "y"},
			expected: "Plain prompt",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.body, tc.values); got != tc.expected {
				t.Errorf("Render(%q) = %q, expected %q", tc.body, got, tc.expected)
			}
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	bodies := []string{
		"Hi <input>Name</input>, bye <input>Name</input>",
		"<input>Platform</input> plan for <input>Brand</input>",
		"No markers here",
	}
	values := map[string]string{"Name": "Ada", "Platform": "Mastodon"}

	for _, body := range bodies {
		once := Render(body, values)
		if len(ExtractFields(once)) != 0 {
			t.Fatalf("Expected no residual markers in %q", once)
		}
		if twice := Render(once, values); twice != once {
			t.Errorf("Render is not idempotent: %q != %q", twice, once)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	testCases := []struct {
		label    string
		expected string
	}{
		{"platform", "Platform"},
		{"Your theme here", "Your Theme Here"},
		{"[Paste your code here]", "Your Code Here"},
		{"INSERT target audience", "Target Audience"},
		{"{brand name}", "Brand Name"},
		{"insert", "insert"},
		{"ünicode label", "Ünicode Label"},
	}

	for _, tc := range testCases {
		t.Run(tc.label, func(t *testing.T) {
			if got := DisplayLabel(tc.label); got != tc.expected {
				t.Errorf("DisplayLabel(%q) = %q, expected %q", tc.label, got, tc.expected)
			}
		})
	}
}

func TestCaseCollisions(t *testing.T) {
	got := CaseCollisions([]string{"name", "Topic", "Name", "NAME", "brand"})
	want := [][]string{{"name", "Name", "NAME"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CaseCollisions mismatch (-want +got):\n%s", diff)
	}

	if got := CaseCollisions([]string{"a", "b"}); got != nil {
		t.Errorf("Expected no collisions, got %v", got)
	}
}
