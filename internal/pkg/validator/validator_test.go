package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidPeriod(t *testing.T) {
	if !IsValidPeriod(2025, 11) {
		t.Errorf("IsValidPeriod(2025, 11) = false, want true")
	}
	for _, p := range [][2]int{{2025, 0}, {2025, 13}, {0, 5}} {
		if IsValidPeriod(p[0], p[1]) {
			t.Errorf("IsValidPeriod(%d, %d) = true, want false", p[0], p[1])
		}
	}
}

func TestIsPercentage(t *testing.T) {
	if !IsPercentage(decimal.NewFromInt(10)) || !IsPercentage(decimal.Zero) || !IsPercentage(decimal.NewFromInt(100)) {
		t.Errorf("IsPercentage rejected a value in range")
	}
	if IsPercentage(decimal.NewFromInt(-1)) || IsPercentage(decimal.RequireFromString("100.01")) {
		t.Errorf("IsPercentage accepted a value out of range")
	}
}

func TestIsNonNegative(t *testing.T) {
	for _, s := range []string{"0", "0.01", "1200000"} {
		if !IsNonNegative(decimal.RequireFromString(s)) {
			t.Errorf("IsNonNegative(%s) = false, want true", s)
		}
	}
	if IsNonNegative(decimal.RequireFromString("-0.01")) {
		t.Errorf("IsNonNegative(-0.01) = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	errs.Add("employee_id", "is required")
	errs.Add("end_date", "must not be before start_date")
	got := errs.Error()
	want := "employee_id: is required; end_date: must not be before start_date"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("empty ValidationErrors.Err() = %v, want nil", errs.Err())
	}
	errs.Add("year", "invalid")
	if errs.Err() == nil {
		t.Errorf("ValidationErrors.Err() = nil, want error")
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "amount", Message: "must not be negative"},
		{Field: "percentage", Message: "must be between 0 and 100"},
	}
	got := errs.ToMap()
	want := map[string]string{"amount": "must not be negative", "percentage": "must be between 0 and 100"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
