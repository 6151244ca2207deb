package validator

import (
	"testing"
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

func TestIsNumeric(t *testing.T) {
	valid := []string{"0", "42", "0001234"}
	invalid := []string{"", "12a", "-1", "1.5", " 1"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2024-01-15"); !ok {
		t.Error("IsValidDate(2024-01-15) = false, want true")
	}
	invalid := []string{"", "2024-13-01", "2024-01-32", "15-01-2024", "2024/01/15", "2024-01-15T00:00:00Z"}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+07:00", "2024-01-15T10:30:00.123Z"}
	invalid := []string{"", "2024-01-15", "2024-01-15 10:30:00", "10:30:00"}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestIsValidDeviceEmployeeID(t *testing.T) {
	valid := []string{"1", "101", "000000000000000000000001"}
	invalid := []string{"", "abc", "12a", "1234567890123456789012345", "-1"}
	for _, s := range valid {
		if !IsValidDeviceEmployeeID(s) {
			t.Errorf("IsValidDeviceEmployeeID(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidDeviceEmployeeID(s) {
			t.Errorf("IsValidDeviceEmployeeID(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"admin", "manager", "staff"}
	if !IsInSlice("manager", slice) {
		t.Error("IsInSlice(manager) = false, want true")
	}
	if IsInSlice("owner", slice) {
		t.Error("IsInSlice(owner) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"},
	}

	want := "start_date: start_date is required; end_date: end_date must be in YYYY-MM-DD format"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}

	m := errs.ToMap()
	if len(m) != 2 || m["start_date"] != "start_date is required" {
		t.Errorf("ToMap() = %v", m)
	}

	msgs := errs.Messages()
	if len(msgs) != 2 || msgs[1] != "end_date: end_date must be in YYYY-MM-DD format" {
		t.Errorf("Messages() = %v", msgs)
	}
}
