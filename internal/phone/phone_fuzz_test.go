package phone

import (
	"testing"
)

// FuzzNormalize checks that Normalize is total and idempotent and only emits canonical keys.
func FuzzNormalize(f *testing.F) {
	seeds := []string{"", "+", "+420 123 456 789", "420123456789", "0123456789", "00420123", "abc", "1+2", "\x00+9"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	n := New("420", 9, "0")
	f.Fuzz(func(t *testing.T, raw string) {
		once := n.Normalize(raw)
		if twice := n.Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
		if once == "" {
			return
		}
		if once[0] != '+' || len(once) < 2 {
			t.Fatalf("key %q does not start with + and a digit", once)
		}
		for i := 1; i < len(once); i++ {
			if once[i] < '0' || once[i] > '9' {
				t.Fatalf("key %q contains non-digit %q", once, once[i])
			}
		}
	})
}
