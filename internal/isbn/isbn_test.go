package isbn

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"hyphens", "0-306-40615-2", "0306406152"},
		{"spaces and prefix", "ISBN 978 0 306 40615 7", "9780306406157"},
		{"keeps lowercase x", "155404295x", "155404295x"},
		{"keeps inner X", "12X4", "12X4"},
		{"punctuation only", " -.,/()", ""},
		{"non-ascii dropped", "٣0306406152", "0306406152"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"0-306-40615-2",
		"isbn: 155404295x",
		"abcXYZxyz123",
		"  --  ",
		"978-0-306-40615-7 (pbk.)",
	}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestPunctuationOnly(t *testing.T) {
	for _, s := range []string{"", " ", "---", "(.) ,/"} {
		assert.Equal(t, "", Normalize(s))
		assert.False(t, IsValid10(s))
		assert.False(t, IsValid13(s))
		assert.False(t, IsValid(s))
	}
}

func TestIsValid10(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0-306-40615-2", true},
		{"0306406152", true},
		{"0306406153", false},
		{"155404295X", true},
		{"155404295x", true},
		{"1554042951", false},
		{"12X4567890", false},
		{"12X456789X", false},
		{"030640615", false},
		{"03064061522", false},
		{"9780306406157", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid10(tt.in))
		})
	}
}

func TestIsValid10_NonDigitInBodyIgnoresChecksum(t *testing.T) {
	for c := '0'; c <= '9'; c++ {
		assert.False(t, IsValid10("12X456789"+string(c)))
	}
	assert.False(t, IsValid10("12X456789X"))
	assert.False(t, IsValid10("X234567890"))
}

func TestIsValid13(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9780306406157", true},
		{"978-0-306-40615-7", true},
		{"9780306406158", false},
		{"978030640615X", false},
		{"97803064061X7", false},
		{"978030640615", false},
		{"97803064061570", false},
		{"0306406152", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid13(tt.in))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("0-306-40615-2"))
	assert.True(t, IsValid("978-0-306-40615-7"))
	assert.True(t, IsValid("ISBN 155404295x"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not an isbn"))
	assert.False(t, IsValid("0306406153"))

	var unset string
	assert.NotPanics(t, func() { IsValid(unset) })
	assert.False(t, IsValid(unset))
}

func TestToISBN13(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"0-306-40615-2", "9780306406157", true},
		{"155404295X", "9781554042951", true},
		{"978-0-306-40615-7", "9780306406157", true},
		{"0306406153", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ToISBN13(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.True(t, IsValid13(got))
			}
		})
	}
}

func TestIsValid_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !IsValid("0306406152") || IsValid("0306406153") {
					t.Error("unexpected result under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
