package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type Position struct {
	Filename string
	Line     int
	Column   int
}

func (pos Position) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

type ScanCtx struct {
	Token    rune
	Ident    string  // Identifier and Reserved
	String   string  // String
	Integer  int64   // Integer
	Float    float64 // Float
	Error    error
	Position Position
}

type scanner struct {
	rr       io.RuneReader
	pos      Position
	unread   bool
	read     rune
	lastLine int // column before the most recent newline
}

func (s *scanner) init(rr io.RuneReader, fn string) {
	s.rr = rr
	s.pos = Position{Filename: fn, Line: 1, Column: 0}
}

func (s *scanner) readRune() (rune, error) {
	if s.unread {
		s.unread = false
	} else {
		var err error
		s.read, _, err = s.rr.ReadRune()
		if err != nil {
			return 0, err
		}
	}

	if s.read == '\n' {
		s.lastLine = s.pos.Column
		s.pos.Line += 1
		s.pos.Column = 0
	} else {
		s.pos.Column += 1
	}
	return s.read, nil
}

func (s *scanner) unreadRune() {
	s.unread = true
	if s.read == '\n' {
		s.pos.Line -= 1
		s.pos.Column = s.lastLine
	} else {
		s.pos.Column -= 1
	}
}

// Scan scans the next token into sctx. It never fails at end of input;
// the EOF token is returned instead.
func (s *scanner) Scan(sctx *ScanCtx) {
	sctx.Token = s.scan(sctx)
	if sctx.Token == Error {
		sctx.Error = fmt.Errorf("parser: %s: %s", sctx.Position, sctx.Error)
	}
}

func (s *scanner) scan(sctx *ScanCtx) rune {
	r, err := s.skipSpace(sctx)
	if err == io.EOF {
		return EOF
	} else if err != nil {
		sctx.Error = err
		return Error
	}

	sctx.Position = s.pos

	switch {
	case r == ';':
		return EndOfStatement
	case isIdentStart(r):
		return s.scanIdent(sctx, r)
	case r == '"' || r == '`':
		return s.scanQuotedIdent(sctx, r)
	case r == '\'':
		return s.scanString(sctx)
	case unicode.IsDigit(r):
		return s.scanNumber(sctx, r)
	}
	return r
}

func (s *scanner) skipSpace(sctx *ScanCtx) (rune, error) {
	for {
		r, err := s.readRune()
		if err != nil {
			return 0, err
		}
		if unicode.IsSpace(r) {
			continue
		}

		if r == '-' {
			n, err := s.readRune()
			if err == io.EOF {
				return r, nil
			} else if err != nil {
				return 0, err
			}
			if n != '-' {
				s.unreadRune()
				return r, nil
			}
			if err := s.skipLineComment(); err != nil {
				return 0, err
			}
			continue
		}

		if r == '/' {
			n, err := s.readRune()
			if err == io.EOF {
				return r, nil
			} else if err != nil {
				return 0, err
			}
			if n != '*' {
				s.unreadRune()
				return r, nil
			}
			if err := s.skipBlockComment(); err != nil {
				return 0, err
			}
			continue
		}

		return r, nil
	}
}

func (s *scanner) skipLineComment() error {
	for {
		r, err := s.readRune()
		if err != nil {
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

func (s *scanner) skipBlockComment() error {
	var star bool
	for {
		r, err := s.readRune()
		if err == io.EOF {
			return fmt.Errorf("unterminated block comment")
		} else if err != nil {
			return err
		}
		if star && r == '/' {
			return nil
		}
		star = (r == '*')
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func (s *scanner) scanIdent(sctx *ScanCtx, r rune) rune {
	var buf strings.Builder
	buf.WriteRune(r)
	for {
		r, err := s.readRune()
		if err == io.EOF {
			break
		} else if err != nil {
			sctx.Error = err
			return Error
		}
		if !isIdentRune(r) {
			s.unreadRune()
			break
		}
		buf.WriteRune(r)
	}

	sctx.Ident = strings.ToLower(buf.String())
	if keywords[sctx.Ident] {
		return Reserved
	}
	return Identifier
}

func (s *scanner) scanQuotedIdent(sctx *ScanCtx, quote rune) rune {
	var buf strings.Builder
	for {
		r, err := s.readRune()
		if err == io.EOF {
			sctx.Error = fmt.Errorf("unterminated quoted identifier")
			return Error
		} else if err != nil {
			sctx.Error = err
			return Error
		}
		if r == quote {
			break
		}
		buf.WriteRune(r)
	}

	// Quoting never promotes an identifier to a keyword.
	sctx.Ident = strings.ToLower(buf.String())
	return Identifier
}

func (s *scanner) scanString(sctx *ScanCtx) rune {
	var buf strings.Builder
	for {
		r, err := s.readRune()
		if err == io.EOF {
			sctx.Error = fmt.Errorf("unterminated string literal")
			return Error
		} else if err != nil {
			sctx.Error = err
			return Error
		}
		if r == '\'' {
			n, err := s.readRune()
			if err == nil && n == '\'' {
				buf.WriteRune('\'')
				continue
			}
			if err == nil {
				s.unreadRune()
			}
			break
		}
		buf.WriteRune(r)
	}

	sctx.String = buf.String()
	return String
}

func (s *scanner) scanNumber(sctx *ScanCtx, r rune) rune {
	var buf strings.Builder
	buf.WriteRune(r)
	float := false
	for {
		r, err := s.readRune()
		if err == io.EOF {
			break
		} else if err != nil {
			sctx.Error = err
			return Error
		}
		if r == '.' {
			float = true
		} else if !unicode.IsDigit(r) {
			s.unreadRune()
			break
		}
		buf.WriteRune(r)
	}

	if float {
		f, err := strconv.ParseFloat(buf.String(), 64)
		if err != nil {
			sctx.Error = fmt.Errorf("bad number %q: %s", buf.String(), err)
			return Error
		}
		sctx.Float = f
		return Float
	}

	i, err := strconv.ParseInt(buf.String(), 10, 64)
	if err != nil {
		sctx.Error = fmt.Errorf("bad number %q: %s", buf.String(), err)
		return Error
	}
	sctx.Integer = i
	return Integer
}
