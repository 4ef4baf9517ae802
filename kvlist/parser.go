// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package kvlist implements a resumable, byte-at-a-time parser for
// newline-delimited "key value" lists: plain keys, quoted keys, and
// /slashed/ regex-style keys with trailing modifier flags, one '#' comment
// per line, values running to end of line.
package kvlist

// Modifiers records the trailing flag letters found after a closed
// /slashed/ key (e.g. "/foo.*/i"). These are forwarded to the regex
// compiler by matchidx rather than being discarded.
type Modifiers uint8

const (
	ModCaseless Modifiers = 1 << iota
	ModMultiline
	ModDotAll
	ModUTF8
	ModExtended
)

func modifierFor(c byte) Modifiers {
	switch c {
	case 'i':
		return ModCaseless
	case 'm':
		return ModMultiline
	case 's':
		return ModDotAll
	case 'u':
		return ModUTF8
	case 'x':
		return ModExtended
	default:
		return 0
	}
}

// Pair is one parsed key/value line.
type Pair struct {
	Key       string
	Value     string
	Slashed   bool
	Modifiers Modifiers
}

type state int

const (
	stateSkipSpacesBeforeKey state = iota
	stateReadKey
	stateReadKeyQuoted
	stateReadKeySlashed
	stateReadKeyAfterSlash
	stateBackslashQuoted
	stateBackslashSlashed
	stateSkipSpacesAfterKey
	stateReadValue
	stateReadCommentStart
	stateSkipComment
	stateReadEOL
)

// Parser holds FSM state across Feed calls, so a key or value split across
// two network reads is parsed correctly without the caller buffering
// anything itself.
type Parser struct {
	st      state
	key     []byte
	value   []byte
	slashed bool
	mods    Modifiers

	OnPair func(Pair)
}

// New creates a Parser that calls onPair for every complete line.
func New(onPair func(Pair)) *Parser {
	return &Parser{OnPair: onPair}
}

func isSpaceTab(c byte) bool {
	return c == ' ' || c == '\t'
}

// Feed consumes chunk, driving the state machine forward one byte at a
// time, and emits a Pair for every line that completes within chunk. If
// final is true, a key or value still pending at the end of chunk (an
// unterminated last line with no trailing newline) is committed as if a
// newline had been seen.
func (p *Parser) Feed(chunk []byte, final bool) {
	for _, c := range chunk {
		p.step(c)
	}
	if final {
		p.flush()
	}
}

func (p *Parser) flush() {
	switch p.st {
	case stateReadKey, stateReadKeyAfterSlash, stateSkipSpacesAfterKey:
		p.commit()
	case stateReadValue:
		p.commit()
	}
	p.st = stateSkipSpacesBeforeKey
}

func (p *Parser) commit() {
	if len(p.key) == 0 {
		p.reset()
		return
	}
	if p.OnPair != nil {
		p.OnPair(Pair{
			Key:       string(p.key),
			Value:     string(p.value),
			Slashed:   p.slashed,
			Modifiers: p.mods,
		})
	}
	p.reset()
}

func (p *Parser) reset() {
	p.key = p.key[:0]
	p.value = p.value[:0]
	p.slashed = false
	p.mods = 0
}

// step advances the state machine by one byte. Two states
// (stateReadCommentStart, stateReadEOL) are pure transitional markers: they
// make a decision without consuming the byte's meaning themselves and then
// redispatch it, so the same method can both occupy a distinct named state
// (matching the original twelve-state design) and stay a single pass over
// the input.
func (p *Parser) step(c byte) {
	switch p.st {
	case stateSkipSpacesBeforeKey:
		switch {
		case c == '#':
			p.st = stateReadCommentStart
		case c == '\n':
			// blank line
		case isSpaceTab(c) || c == '\r':
			// keep skipping
		case c == '"':
			p.st = stateReadKeyQuoted
		case c == '/':
			p.st = stateReadKeySlashed
			p.slashed = true
		default:
			p.key = append(p.key, c)
			p.st = stateReadKey
		}

	case stateReadKey:
		switch {
		case c == '\\':
			p.st = stateBackslashQuoted
		case c == '=' || isSpaceTab(c):
			p.st = stateSkipSpacesAfterKey
		case c == '\n':
			p.commit()
			p.st = stateReadEOL
			p.step(c)
		case c == '#':
			p.commit()
			p.st = stateReadCommentStart
		default:
			p.key = append(p.key, c)
		}

	case stateReadKeyQuoted:
		switch c {
		case '\\':
			p.st = stateBackslashQuoted
		case '"':
			p.st = stateSkipSpacesAfterKey
		case '\n':
			p.commit()
			p.st = stateReadEOL
			p.step(c)
		default:
			p.key = append(p.key, c)
		}

	case stateBackslashQuoted:
		p.key = append(p.key, c)
		p.st = stateReadKeyQuoted

	case stateReadKeySlashed:
		switch c {
		case '\\':
			p.st = stateBackslashSlashed
		case '/':
			p.st = stateReadKeyAfterSlash
		case '\n':
			p.commit()
			p.st = stateReadEOL
			p.step(c)
		default:
			p.key = append(p.key, c)
		}

	case stateBackslashSlashed:
		p.key = append(p.key, c)
		p.st = stateReadKeySlashed

	case stateReadKeyAfterSlash:
		switch {
		case isSpaceTab(c):
			p.st = stateSkipSpacesAfterKey
		case c == '\n':
			p.commit()
			p.st = stateReadEOL
			p.step(c)
		case c == '#':
			p.commit()
			p.st = stateReadCommentStart
		default:
			p.mods |= modifierFor(c)
		}

	case stateSkipSpacesAfterKey:
		switch {
		case isSpaceTab(c) || c == '=':
			// stay; only space/tab counts as whitespace here, unlike the
			// whitespace-before-key state, deliberately. '=' is skipped
			// as the optional key/value separator, as in stateReadKey.
		case c == '\n':
			p.commit()
			p.st = stateReadEOL
			p.step(c)
		case c == '#':
			p.commit()
			p.st = stateReadCommentStart
		default:
			p.value = append(p.value, c)
			p.st = stateReadValue
		}

	case stateReadValue:
		switch c {
		case '\n':
			p.commit()
			p.st = stateReadEOL
			p.step(c)
		case '#':
			p.commit()
			p.st = stateReadCommentStart
		default:
			p.value = append(p.value, c)
		}

	case stateReadCommentStart:
		if c == '\n' {
			p.st = stateReadEOL
			p.step(c)
			return
		}
		p.st = stateSkipComment

	case stateSkipComment:
		if c == '\n' {
			p.st = stateReadEOL
			p.step(c)
		}

	case stateReadEOL:
		p.st = stateSkipSpacesBeforeKey
		p.step(c)
	}
}
