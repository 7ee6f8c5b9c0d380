package format

import (
	"errors"
	"testing"

	"github.com/joshuapare/dtbmods/internal/testutil"
)

func TestReadRecordSequence(t *testing.T) {
	blob := testutil.Build(&testutil.Node{
		Children: []*testutil.Node{{
			Name:  "serial@9000",
			Props: []testutil.Prop{testutil.Compatible("acme,uart")},
		}},
	})
	hdr, err := ParseHeader(blob)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	s := hdr.StructBlock(blob)
	strs := hdr.StringsBlock(blob)

	var got []Token
	off := 0
	for {
		rec, err := ReadRecord(s, off)
		if err != nil {
			t.Fatalf("ReadRecord(0x%x): %v", off, err)
		}
		got = append(got, rec.Token)
		switch rec.Token {
		case TokenBeginNode:
			if len(got) == 2 && string(rec.Name) != "serial@9000" {
				t.Fatalf("child name = %q", rec.Name)
			}
		case TokenProp:
			name, err := StringAt(strs, rec.NameOff)
			if err != nil || name != "compatible" {
				t.Fatalf("prop name = %q, %v", name, err)
			}
			if string(rec.Value) != "acme,uart\x00" {
				t.Fatalf("prop value = %q", rec.Value)
			}
		}
		if rec.Next%4 != 0 {
			t.Fatalf("next offset 0x%x not aligned", rec.Next)
		}
		if rec.Token == TokenEnd {
			break
		}
		off = rec.Next
	}

	want := []Token{TokenBeginNode, TokenBeginNode, TokenProp, TokenEndNode, TokenEndNode, TokenEnd}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadRecordErrors(t *testing.T) {
	tests := []struct {
		name string
		s    []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"unknown tag", []byte{0, 0, 0, 7}, ErrBadToken},
		{"unterminated name", []byte{0, 0, 0, 1, 'a', 'b'}, ErrTruncated},
		{"short prop header", []byte{0, 0, 0, 3, 0, 0, 0, 1}, ErrTruncated},
		{"prop value past end", []byte{0, 0, 0, 3, 0, 0, 0, 9, 0, 0, 0, 0, 'x'}, ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadRecord(tt.s, 0); !errors.Is(err, tt.want) {
				t.Fatalf("ReadRecord error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	if TokenProp.String() != "FDT_PROP" || Token(42).String() != "FDT_UNKNOWN" {
		t.Fatalf("unexpected token names")
	}
}

func TestStringAt(t *testing.T) {
	strs := []byte("compatible\x00reg\x00")
	if s, err := StringAt(strs, 11); err != nil || s != "reg" {
		t.Fatalf("StringAt(11) = %q, %v", s, err)
	}
	if _, err := StringAt(strs, 100); !errors.Is(err, ErrTruncated) {
		t.Fatalf("StringAt past end error = %v", err)
	}
}
