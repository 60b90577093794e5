package gml

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokString
	tokWord
)

type token struct {
	kind tokenKind
	text string
	line int
}

type scanner struct {
	r    *bufio.Reader
	line int
}

func (s *scanner) next() (token, error) {
	for {
		c, err := s.r.ReadByte()
		if err == io.EOF {
			return token{kind: tokEOF, line: s.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		switch {
		case c == '\n':
			s.line++
		case c == ' ' || c == '\t' || c == '\r':
		case c == '#':
			if _, err := s.r.ReadString('\n'); err != nil && err != io.EOF {
				return token{}, err
			}
			s.line++
		case c == '[':
			return token{kind: tokOpen, text: "[", line: s.line}, nil
		case c == ']':
			return token{kind: tokClose, text: "]", line: s.line}, nil
		case c == '"':
			line := s.line
			text, err := s.r.ReadString('"')
			if err != nil {
				return token{}, fmt.Errorf("%w: line %d: unterminated string", ErrSyntax, line)
			}
			s.line += strings.Count(text, "\n")
			return token{kind: tokString, text: html.UnescapeString(text[:len(text)-1]), line: line}, nil
		default:
			var b strings.Builder
			b.WriteByte(c)
			for {
				c, err := s.r.ReadByte()
				if err == io.EOF {
					break
				}
				if err != nil {
					return token{}, err
				}
				if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '[' || c == ']' || c == '"' {
					if err := s.r.UnreadByte(); err != nil {
						return token{}, err
					}
					break
				}
				b.WriteByte(c)
			}
			return token{kind: tokWord, text: b.String(), line: s.line}, nil
		}
	}
}

// Decode reads a whole document.
func Decode(r io.Reader) (List, error) {
	s := &scanner{r: bufio.NewReader(r), line: 1}
	return s.list(false)
}

func (s *scanner) list(nested bool) (List, error) {
	var l List
	for {
		key, err := s.next()
		if err != nil {
			return nil, err
		}
		switch key.kind {
		case tokEOF:
			if nested {
				return nil, fmt.Errorf("%w: line %d: missing ]", ErrSyntax, key.line)
			}
			return l, nil
		case tokClose:
			if !nested {
				return nil, fmt.Errorf("%w: line %d: unexpected ]", ErrSyntax, key.line)
			}
			return l, nil
		case tokWord:
		default:
			return nil, fmt.Errorf("%w: line %d: expected key, got %q", ErrSyntax, key.line, key.text)
		}

		val, err := s.next()
		if err != nil {
			return nil, err
		}
		var v any
		switch val.kind {
		case tokOpen:
			sub, err := s.list(true)
			if err != nil {
				return nil, err
			}
			if sub == nil {
				sub = List{}
			}
			v = sub
		case tokString:
			v = val.text
		case tokWord:
			if v, err = number(val.text); err != nil {
				return nil, fmt.Errorf("%w: line %d: key %s: %v", ErrSyntax, val.line, key.text, err)
			}
		default:
			return nil, fmt.Errorf("%w: line %d: key %s has no value", ErrSyntax, key.line, key.text)
		}
		l = append(l, Pair{Key: key.text, Value: v})
	}
}

func number(text string) (any, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}
