package inputval

import "testing"

func TestValidate_Required(t *testing.T) {
	type input struct {
		Title string `validate:"required" label:"Project title"`
	}

	res := Validate(input{})
	if !res.HasErrors() {
		t.Fatal("expected error for empty required field")
	}
	if res.First() != "Project title is required." {
		t.Errorf("First() = %q", res.First())
	}

	res = Validate(input{Title: "Clean water"})
	if res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.All())
	}
}

func TestValidate_Max(t *testing.T) {
	type input struct {
		Title string `validate:"max=5" label:"Title"`
	}

	if res := Validate(input{Title: "short"}); res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.All())
	}
	res := Validate(input{Title: "definitely too long"})
	if !res.HasErrors() {
		t.Fatal("expected max length error")
	}
	if res.First() != "Title must be 5 characters or fewer." {
		t.Errorf("First() = %q", res.First())
	}
}

func TestValidate_Email(t *testing.T) {
	type input struct {
		Email string `validate:"required,email" label:"Email"`
	}

	if res := Validate(input{Email: "user@example.com"}); res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.All())
	}
	if res := Validate(input{Email: "not-an-email"}); !res.HasErrors() {
		t.Error("expected error for malformed email")
	}
}

func TestValidate_MultipleFieldsInOrder(t *testing.T) {
	type input struct {
		Title    string `validate:"required" label:"Title"`
		Location string `validate:"required" label:"Location"`
	}

	res := Validate(input{})
	if len(res.All()) != 2 {
		t.Fatalf("got %d errors, want 2", len(res.All()))
	}
	if res.First() != "Title is required." {
		t.Errorf("First() = %q, want Title error first", res.First())
	}
}

func TestValidate_NonStruct(t *testing.T) {
	if res := Validate("not a struct"); res.HasErrors() {
		t.Error("non-struct input should not produce errors")
	}
}
