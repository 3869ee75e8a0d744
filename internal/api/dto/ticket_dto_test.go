package dto

import (
	"strings"
	"testing"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
	"github.com/spec-kit/helpdesk/pkg/validation"
)

func TestTicketTitleLength(t *testing.T) {
	tests := []struct {
		name  string
		title string
		ok    bool
	}{
		{"at limit", strings.Repeat("a", 200), true},
		{"over limit", strings.Repeat("a", 201), false},
		{"multibyte at limit", strings.Repeat("é", 200), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := tt.title
			requests := map[string]any{
				"create":  &CreateTicketRequest{Title: title, Description: "d"},
				"replace": &ReplaceTicketRequest{Title: title, Description: "d", Status: "open"},
				"patch":   &PatchTicketRequest{Title: &title},
			}
			for kind, req := range requests {
				err := validation.Struct(req)
				if tt.ok && err != nil {
					t.Errorf("%s: expected valid, got %v", kind, err)
				}
				if !tt.ok {
					de := apperrors.ToDomainError(err)
					if de == nil || de.Details["title"] != "must be at most 200 characters" {
						t.Errorf("%s: expected title error, got %v", kind, err)
					}
				}
			}
		})
	}
}

func TestNormalizeRejectsBlankText(t *testing.T) {
	blank := "   "
	requests := map[string]interface{ Normalize() }{
		"create":  &CreateTicketRequest{Title: blank, Description: "\t\n"},
		"replace": &ReplaceTicketRequest{Title: blank, Description: blank, Status: "open"},
		"patch":   &PatchTicketRequest{Title: &blank, Description: &blank},
	}
	for kind, req := range requests {
		req.Normalize()
		de := apperrors.ToDomainError(validation.Struct(req))
		if de == nil || de.Code != "VALIDATION_FAILED" {
			t.Fatalf("%s: expected validation error, got %v", kind, de)
		}
		for _, field := range []string{"title", "description"} {
			if _, ok := de.Details[field]; !ok {
				t.Errorf("%s: expected %s in details, got %v", kind, field, de.Details)
			}
		}
	}

	title := "  Printer broken  "
	patch := PatchTicketRequest{Title: &title}
	patch.Normalize()
	if *patch.Title != "Printer broken" || title != "  Printer broken  " {
		t.Errorf("unexpected trim result %q (source %q)", *patch.Title, title)
	}
}
