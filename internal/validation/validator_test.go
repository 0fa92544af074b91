package validation

import (
	"testing"

	"github.com/dpshade/prompt-overflow/internal/errors"
	"github.com/dpshade/prompt-overflow/internal/models"
)

func TestValidateSchemas(t *testing.T) {
	v := NewValidator()

	testCases := []struct {
		name   string
		schema string
		data   map[string]interface{}
		valid  bool
	}{
		{"list defaults", "list_prompts", map[string]interface{}{}, true},
		{"list json", "list_prompts", map[string]interface{}{"format": "json"}, true},
		{"list bad format", "list_prompts", map[string]interface{}{"format": "xml"}, false},
		{"search empty query", "search_prompts", map[string]interface{}{"query": ""}, true},
		{"suggest", "suggest", map[string]interface{}{"query": "co", "limit": 3}, true},
		{"suggest missing query", "suggest", map[string]interface{}{"limit": 3}, false},
		{"suggest negative limit", "suggest", map[string]interface{}{"query": "co", "limit": -1}, false},
		{"suggest limit string", "suggest", map[string]interface{}{"query": "co", "limit": "4"}, true},
		{"suggest limit garbage", "suggest", map[string]interface{}{"query": "co", "limit": "four"}, false},
		{"get prompt", "get_prompt", map[string]interface{}{"id": "1"}, true},
		{"get prompt empty", "get_prompt", map[string]interface{}{"id": ""}, false},
		{"render vars", "render_prompt", map[string]interface{}{"id": "1", "vars": []string{"name=Ada", "x=a=b"}}, true},
		{"render bad var", "render_prompt", map[string]interface{}{"id": "1", "vars": []string{"novalue"}}, false},
		{"unknown schema", "nope", map[string]interface{}{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := v.Validate(tc.schema, tc.data)
			if result.Valid != tc.valid {
				t.Errorf("Expected valid=%v, got %v (errors: %+v)", tc.valid, result.Valid, result.Errors)
			}
			if !tc.valid && result.ToAppError() == nil {
				t.Error("Expected an AppError for an invalid result")
			}
		})
	}
}

func TestValidatedDataConverted(t *testing.T) {
	result := NewValidator().Validate("suggest", map[string]interface{}{"query": "co", "limit": "4"})
	data := result.GetValidatedData()
	if data["limit"] != 4 {
		t.Errorf("Expected limit converted to int 4, got %#v", data["limit"])
	}
}

func TestParseAssignment(t *testing.T) {
	testCases := []struct {
		input string
		label string
		value string
		ok    bool
	}{
		{"name=Ada", "name", "Ada", true},
		{" name =Ada Lovelace", "name", "Ada Lovelace", true},
		{"expr=a=b", "expr", "a=b", true},
		{"empty=", "empty", "", true},
		{"=value", "", "", false},
		{"novalue", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			label, value, err := ParseAssignment(tc.input)
			if (err == nil) != tc.ok {
				t.Fatalf("ParseAssignment(%q) error = %v, want ok=%v", tc.input, err, tc.ok)
			}
			if label != tc.label || value != tc.value {
				t.Errorf("ParseAssignment(%q) = (%q, %q), want (%q, %q)", tc.input, label, value, tc.label, tc.value)
			}
		})
	}
}

func TestValidateCollection(t *testing.T) {
	prompts := []models.Prompt{
		{ID: "a", Name: "Alpha", Category: "Writing", Body: "Hi <input>name</input> and <input>Name</input>"},
		{ID: "b", Name: "", Category: "Writing", Body: "text"},
		{ID: "a", Name: "Alpha again", Category: "Writing", Body: "text"},
		{ID: "", Name: "No id", Category: "Writing", Body: ""},
	}

	result := ValidateCollection(prompts)
	if result.Valid {
		t.Fatal("Expected duplicate and empty ids to invalidate the collection")
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d: %+v", len(result.Errors), result.Errors)
	}
	// missing title, empty body, case collision
	if len(result.Warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %d: %+v", len(result.Warnings), result.Warnings)
	}

	appErr := result.ToAppError()
	if appErr.Code != errors.ErrCodeDuplicateID {
		t.Errorf("Expected duplicate id code, got %s", appErr.Code)
	}

	clean := ValidateCollection(prompts[:2])
	if !clean.Valid {
		t.Errorf("Expected unique ids to be valid, got %+v", clean.Errors)
	}
}

func TestValidateCollectionWarnsOnBlankLabelsAndCategories(t *testing.T) {
	testCases := []struct {
		name   string
		prompt models.Prompt
		field  string
		want   string
	}{
		{
			name:   "empty label",
			prompt: models.Prompt{ID: "a", Name: "A", Category: "Writing", Body: "Fill <input></input> here"},
			field:  "prompts[0].prompt",
			want:   "placeholder has an empty label",
		},
		{
			name:   "whitespace label",
			prompt: models.Prompt{ID: "a", Name: "A", Category: "Writing", Body: "Fill <input>   </input> here"},
			field:  "prompts[0].prompt",
			want:   "placeholder has an empty label",
		},
		{
			name:   "missing category",
			prompt: models.Prompt{ID: "a", Name: "A", Body: "text"},
			field:  "prompts[0].category",
			want:   "prompt has no category",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateCollection([]models.Prompt{tc.prompt})
			if !result.Valid {
				t.Fatalf("Expected warnings only, got errors %+v", result.Errors)
			}
			if len(result.Warnings) != 1 {
				t.Fatalf("Expected 1 warning, got %+v", result.Warnings)
			}
			if w := result.Warnings[0]; w.Field != tc.field || w.Message != tc.want {
				t.Errorf("Expected %s: %q, got %s: %q", tc.field, tc.want, w.Field, w.Message)
			}
		})
	}

	clean := ValidateCollection([]models.Prompt{{ID: "a", Name: "A", Category: "Writing", Body: "Fill <input>name</input>"}})
	if len(clean.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %+v", clean.Warnings)
	}
}

func TestUniqueByID(t *testing.T) {
	prompts := []models.Prompt{
		{ID: "a", Name: "first"},
		{ID: "b"},
		{ID: "a", Name: "second"},
		{ID: ""},
	}

	kept, dropped := UniqueByID(prompts)
	if len(kept) != 2 || kept[0].Name != "first" || kept[1].ID != "b" {
		t.Errorf("Unexpected kept prompts: %+v", kept)
	}
	if len(dropped) != 2 || dropped[0] != "a" || dropped[1] != "" {
		t.Errorf("Unexpected dropped ids: %q", dropped)
	}
}
