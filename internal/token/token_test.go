package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Type
	}{
		{"class", CLASS},
		{"fn", FN},
		{"self", SELF},
		{"super", SUPER},
		{"while", WHILE},
		{"let", LET},
		{"echo", ECHO},
		{"notAKeyword", IDENTIFIER},
		{"Echo", IDENTIFIER}, // keywords are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			if got := LookupIdent(tt.ident); got != tt.want {
				t.Errorf("LookupIdent(%q) = %v, want %v", tt.ident, got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	if got := FN.String(); got != "FN" {
		t.Errorf("FN.String() = %q, want %q", got, "FN")
	}
	if got := Type(9999).String(); got != "Type(9999)" {
		t.Errorf("unknown Type.String() = %q, want %q", got, "Type(9999)")
	}
}

func TestTokenLocation(t *testing.T) {
	tok := Token{
		Lexeme:   "foo",
		Position: Position{Line: 3, Column: 7},
		Length:   3,
	}
	if tok.Line() != 3 {
		t.Errorf("Line() = %d, want 3", tok.Line())
	}
	if tok.Column() != 7 {
		t.Errorf("Column() = %d, want 7", tok.Column())
	}
	if tok.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tok.Len())
	}
}
