package options

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	n, err := Parse("category_5", Category)
	if err != nil || n != 5 {
		t.Fatalf("Parse = %d, %v", n, err)
	}
	if n, err := Parse(ID(Hour, 0), Hour); err != nil || n != 0 {
		t.Fatalf("hour zero = %d, %v", n, err)
	}
	bad := []string{"category_", "category_x", "category_-1", "category_5a", "service_5", "category5", " category_5", ""}
	for _, id := range bad {
		if _, err := Parse(id, Category); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Parse(%q) err = %v, want ErrMalformed", id, err)
		}
	}
}

func TestKind(t *testing.T) {
	if Kind("professional_12") != Professional {
		t.Fatal("expected professional kind")
	}
	if Kind(Confirm) != Confirm {
		t.Fatal("fixed id should be its own kind")
	}
	if !HasPrefix("hour_abc", Hour) || HasPrefix("hours", Hour) {
		t.Fatal("HasPrefix mismatch")
	}
}
