package validation

import (
	"errors"
	"testing"
)

var titleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string", "minLength": 1},
		"order": map[string]any{"type": "integer"},
	},
	"required":             []any{"title"},
	"additionalProperties": false,
}

func TestValidatorAcceptsValidPayload(t *testing.T) {
	v := NewValidator()
	doc, err := ToDocument(map[string]any{"title": "Приказ", "order": 2})
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	if err := v.Validate("title", titleSchema, doc); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestValidatorReportsIssues(t *testing.T) {
	v := NewValidator()
	doc, _ := ToDocument(map[string]any{"order": "first", "extra": true})

	err := v.Validate("title", titleSchema, doc)
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) < 2 {
		t.Fatalf("expected several issues, got %+v", issues)
	}
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	_, err := Compile(map[string]any{"type": 12})
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssuesFallsBackToErrorText(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if len(issues) != 1 || issues[0].Message != "boom" {
		t.Fatalf("unexpected issues %+v", issues)
	}
}
