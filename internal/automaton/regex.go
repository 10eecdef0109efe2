package automaton

import (
	"fmt"
	"strings"
)

// CompileRegex compiles a regular expression over an event-name alphabet
// into a deterministic Automaton.
//
// Grammar (symbols are whole event names, not characters):
//
//	expr    := term ('|' term)*
//	term    := factor+
//	factor  := atom ('*' | '+' | '?')?
//	atom    := NAME | '(' expr ')'
//
// NAME is any run of non-whitespace, non-metacharacter runes; event names
// are separated from operators by surrounding them with spaces or
// parentheses in the specification source, e.g.:
//
//	"createList updateList* createIter next* updateList+ next"
//
// which parses as a sequence (concatenation) of six factors.
//
// Every DFA state whose NFA subset contains the NFA's accepting state is a
// match state (there can be more than one); there are no
// explicit "match" annotations in the regex surface syntax since acceptance
// is exactly "the expression has matched a full prefix of the trace".
func CompileRegex(pattern string) (*Automaton, error) {
	toks, err := tokenizeRegex(pattern)
	if err != nil {
		return nil, err
	}
	builder := newNFA()
	p := &regexParser{toks: toks, nfa: builder}
	frag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("automaton: unexpected token %q in regex", p.toks[p.pos].text)
	}

	acceptID := builder.newState()
	builder.accept = acceptID
	builder.start = frag.start
	builder.patch(frag.out, acceptID)

	dfa := subsetConstruct(builder)
	return dfa, nil
}

// --- tokenizer ---

type regexTokenKind int

const (
	tokName regexTokenKind = iota
	tokStar
	tokPlus
	tokQuestion
	tokPipe
	tokLParen
	tokRParen
)

type regexToken struct {
	kind regexTokenKind
	text string
}

func tokenizeRegex(pattern string) ([]regexToken, error) {
	var toks []regexToken
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			toks = append(toks, regexToken{kind: tokName, text: buf.String()})
			buf.Reset()
		}
	}

	for _, r := range pattern {
		switch r {
		case ' ', '\t', '\n':
			flush()
		case '*':
			flush()
			toks = append(toks, regexToken{kind: tokStar})
		case '+':
			flush()
			toks = append(toks, regexToken{kind: tokPlus})
		case '?':
			flush()
			toks = append(toks, regexToken{kind: tokQuestion})
		case '|':
			flush()
			toks = append(toks, regexToken{kind: tokPipe})
		case '(':
			flush()
			toks = append(toks, regexToken{kind: tokLParen})
		case ')':
			flush()
			toks = append(toks, regexToken{kind: tokRParen})
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return toks, nil
}

// --- recursive-descent parser producing NFA fragments ---

type regexParser struct {
	toks []regexToken
	pos  int
	nfa  *nfaBuilder
}

func (p *regexParser) peek() (regexToken, bool) {
	if p.pos >= len(p.toks) {
		return regexToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *regexParser) parseExpr() (*nfaFragment, error) {
	frag, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokPipe {
			break
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		frag = p.nfa.alternate(frag, rhs)
	}
	return frag, nil
}

func (p *regexParser) parseTerm() (*nfaFragment, error) {
	frag, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind == tokPipe || tok.kind == tokRParen {
			break
		}
		next, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		frag = p.nfa.concat(frag, next)
	}
	return frag, nil
}

func (p *regexParser) parseFactor() (*nfaFragment, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		switch tok.kind {
		case tokStar:
			p.pos++
			atom = p.nfa.star(atom)
		case tokPlus:
			p.pos++
			atom = p.nfa.plus(atom)
		case tokQuestion:
			p.pos++
			atom = p.nfa.optional(atom)
		default:
			return atom, nil
		}
	}
	return atom, nil
}

func (p *regexParser) parseAtom() (*nfaFragment, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("automaton: unexpected end of regex")
	}
	switch tok.kind {
	case tokName:
		p.pos++
		return p.nfa.symbol(tok.text), nil
	case tokLParen:
		p.pos++
		frag, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		tok, ok = p.peek()
		if !ok || tok.kind != tokRParen {
			return nil, fmt.Errorf("automaton: missing closing parenthesis in regex")
		}
		p.pos++
		return frag, nil
	default:
		return nil, fmt.Errorf("automaton: unexpected token in regex atom")
	}
}
