package counter

import (
	"errors"
	"testing"
)

func TestParseRestrict(t *testing.T) {
	tests := []struct {
		text    string
		want    Restrict
		wantErr bool
	}{
		{"@all", Everyone, false},
		{"42", OnlyUser(42), false},
		{"-1001", OnlyUser(-1001), false},
		{"notanumber", Restrict{}, true},
		{"", Restrict{}, true},
		{"@ALL", Restrict{}, true},
		{"4 2", Restrict{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRestrict(tt.text)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedRestrict) {
				t.Errorf("ParseRestrict(%q) err = %v, want ErrMalformedRestrict", tt.text, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRestrict(%q) = %+v, %v", tt.text, got, err)
		}
		if got.String() != tt.text {
			t.Errorf("String() = %q, want %q", got.String(), tt.text)
		}
	}
}

func TestRestrictAllows(t *testing.T) {
	for _, user := range []int64{0, 7, 42, -5} {
		if !Everyone.Allows(user) {
			t.Errorf("Everyone.Allows(%d) = false", user)
		}
		for _, owner := range []int64{0, 7, 42} {
			if got := OnlyUser(owner).Allows(user); got != (owner == user) {
				t.Errorf("OnlyUser(%d).Allows(%d) = %v", owner, user, got)
			}
		}
	}
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload("Score: *5*|@all")
	if err != nil || p.State != "Score: *5*" || !p.Restrict.IsEveryone() {
		t.Fatalf("got %+v, %v", p, err)
	}

	p, err = ParsePayload("a|b: *1*|42")
	if err != nil || p.State != "a|b: *1*" || p.Restrict != OnlyUser(42) {
		t.Fatalf("only the last | splits: %+v, %v", p, err)
	}
	if p.String() != "a|b: *1*|42" {
		t.Fatalf("String() = %q", p.String())
	}

	if _, err := ParsePayload("Score: *5*"); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if _, err := ParsePayload("Score: *5*|notanumber"); !errors.Is(err, ErrMalformedRestrict) {
		t.Fatalf("expected ErrMalformedRestrict, got %v", err)
	}
}

func TestNewPayload(t *testing.T) {
	if got := NewPayload(State{"Score", 6}, OnlyUser(7)).String(); got != "Score: *6*|7" {
		t.Fatalf("got %q", got)
	}
}
