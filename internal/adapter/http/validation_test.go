package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		ApplicantID string `json:"applicant_id" validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{ApplicantID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x",
	} {
		err := cv.Validate(P{ApplicantID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "applicant_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got %+v", s, fe)
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Rate float64 `json:"annual_rate" validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{0, 1, 1.2, 6.25, 999.99} {
		if err := cv.Validate(P{Rate: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Rate: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "annual_rate", "at most 2 decimal places") {
			t.Fatalf("expected dec2 message for %v, got %+v", v, fe)
		}
	}
}

func TestLoanTypeAndStatusValidation(t *testing.T) {
	type P struct {
		LoanType string `json:"loan_type" validate:"omitempty,loantype"`
		Status   string `json:"status" validate:"omitempty,loanstatus"`
	}
	cv := NewValidator()

	for _, p := range []P{{}, {LoanType: "personal"}, {LoanType: " Mortgage "}, {Status: "approved"}, {Status: "Paid"}} {
		if err := cv.Validate(p); err != nil {
			t.Fatalf("expected %+v valid, got %v", p, err)
		}
	}

	fe := ToFieldErrors(cv.Validate(P{LoanType: "yacht", Status: "Archived"}))
	if !containsFieldMsg(fe, "loan_type", "not a known loan type") {
		t.Fatalf("missing loan_type message: %+v", fe)
	}
	if !containsFieldMsg(fe, "status", "must be one of") {
		t.Fatalf("missing status message: %+v", fe)
	}
}

func TestSubmitRequestMapping(t *testing.T) {
	cv := NewValidator()
	rate := 1.333

	err := cv.Validate(submitLoanReq{
		Applicant:  applicantReq{Email: "not-an-email"},
		Principal:  0,
		TermMonths: 1201,
		AnnualRate: &rate,
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "applicant.email", "valid email") {
		t.Fatalf("missing nested email message: %+v", fe)
	}
	if !containsFieldMsg(fe, "principal", "greater than 0") {
		t.Fatalf("missing principal message: %+v", fe)
	}
	if !containsFieldMsg(fe, "term_months", "less than or equal to 1200") {
		t.Fatalf("missing term message: %+v", fe)
	}
	if !containsFieldMsg(fe, "annual_rate", "at most 2 decimal places") {
		t.Fatalf("missing rate message: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
