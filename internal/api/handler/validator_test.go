package handler

import "testing"

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	fields := fieldErrors(t, v.Validate(&registerRequest{Email: "x", Username: "u", Password: "p"}))
	if _, ok := fields["Email"]; ok {
		t.Fatalf("errors must be keyed by json name, got %v", fields)
	}
	if got := fields["email"]; len(got) != 1 || got[0] != "Enter a valid email address." {
		t.Fatalf("unexpected email errors: %v", got)
	}
	if got := fields["password2"]; len(got) != 1 || got[0] != "This field is required." {
		t.Fatalf("unexpected password2 errors: %v", got)
	}
}

func TestValidator_MaxLength(t *testing.T) {
	v := NewValidator()
	long := make([]byte, 151)
	for i := range long {
		long[i] = 'a'
	}
	name := string(long)

	fields := fieldErrors(t, v.Validate(&profileRequest{Username: &name}))
	if got := fields["username"]; len(got) != 1 || got[0] != "Ensure this field has no more than 150 characters." {
		t.Fatalf("unexpected username errors: %v", got)
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&loginRequest{Email: "a@example.com", Password: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
