package validator

import "testing"

type sample struct {
	Title    string `json:"title" validate:"max=5"`
	DoctorID string `json:"doctor_id" validate:"omitempty,uuid"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Title: "too long", DoctorID: "nope"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	got := v.FormatValidationErrors(err)
	if got["Title"] != "Title must be at most 5 characters" {
		t.Fatalf("unexpected title message: %q", got["Title"])
	}
	if got["DoctorID"] != "DoctorID must be a valid UUID" {
		t.Fatalf("unexpected doctor message: %q", got["DoctorID"])
	}

	if err := v.Validate(&sample{Title: "ok"}); err != nil {
		t.Fatalf("expected valid sample, got %v", err)
	}
}
