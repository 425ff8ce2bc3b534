package encoding

import (
	"bytes"
	"testing"
)

func TestEUCKRRoundTrip(t *testing.T) {
	tests := []string{"", "plain.bmp", "유저인터페이스", "data\\texture\\나무.bmp"}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			encoded := UTF8ToEUCKR(s)
			if got := EUCKRToUTF8(encoded); got != s {
				t.Errorf("round trip = %q, want %q", got, s)
			}
		})
	}
}

func TestUTF8ToEUCKR_Bytes(t *testing.T) {
	// 가 is 0xB0A1 in EUC-KR.
	if got := UTF8ToEUCKR("가"); !bytes.Equal(got, []byte{0xB0, 0xA1}) {
		t.Errorf("UTF8ToEUCKR(가) = % x", got)
	}
}

func TestNormalizeGRFPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`DATA\Model\House.RSM`, "data/model/house.rsm"},
		{"data/texture/a.bmp", "data/texture/a.bmp"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeGRFPath(tt.in); got != tt.want {
			t.Errorf("NormalizeGRFPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFixedString(t *testing.T) {
	field := UTF8ToFixedString("나무", 8)
	if len(field) != 8 {
		t.Fatalf("len = %d, want 8", len(field))
	}
	if !bytes.Equal(field[4:], []byte{0, 0, 0, 0}) {
		t.Errorf("field not NUL-padded: % x", field)
	}
	if got := FixedStringToUTF8(field); got != "나무" {
		t.Errorf("FixedStringToUTF8 = %q", got)
	}

	// Bytes after the terminator are ignored.
	if got := FixedStringToUTF8([]byte("root\x00junk")); got != "root" {
		t.Errorf("got %q, want root", got)
	}
	// No terminator uses the whole field.
	if got := FixedStringToUTF8([]byte("abcd")); got != "abcd" {
		t.Errorf("got %q, want abcd", got)
	}
}
