package cmd

import (
	"log/slog"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/token"
)

// Sigil is the directive rune configured on the command line.
// It must lex as a single punctuation token that is not reserved by the
// directive grammar ([lang.ReservedPunct]).
type Sigil rune

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sigil) UnmarshalText(text []byte) error {
	toks, err := token.Lex(string(text))
	if err != nil || len(toks) != 1 || toks[0].Kind != token.KindPunct ||
		len(toks[0].Text) != len(text) || lang.IsReserved([]rune(toks[0].Text)[0]) {
		return ErrInvalidSigil.With(slog.String("sigil", string(text)))
	}

	*s = Sigil([]rune(toks[0].Text)[0])

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Sigil) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Sigil) String() string {
	if s == 0 {
		return string(lang.DefaultSigil)
	}

	return string(rune(s))
}

// Option returns the evaluator option selecting s.
func (s Sigil) Option() lang.Option {
	if s == 0 {
		return lang.WithSigil(lang.DefaultSigil)
	}

	return lang.WithSigil(rune(s))
}
