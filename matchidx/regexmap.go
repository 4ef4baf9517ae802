// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx

import (
	"strings"
	"unicode/utf8"

	"code.hybscloud.com/matchpool"
	"code.hybscloud.com/matchpool/kvlist"
	"github.com/cespare/xxhash/v2"
	"github.com/dlclark/regexp2"
)

type regexEntry struct {
	pattern *regexp2.Regexp
	source  string
	opts    regexp2.RegexOptions
	rec     *record
}

type regexMapData struct {
	entries []regexEntry
	order   []string
	multi   MultiMatcher
	utf     bool
}

// RegexMap indexes compiled patterns (optionally glob-translated) and
// dispatches either single-hit or all-hits matching, optionally
// accelerated by a precompiled MultiMatcher when one is available.
type RegexMap struct {
	pool     *matchpool.Pool
	logger   Logger
	glob     bool
	multiple bool
	utf      bool
	gen      Generation[regexMapData]
	building []regexEntry
	order    []string
}

type RegexMapOption func(*RegexMap)

func (m *RegexMap) setLogger(l Logger) { m.logger = l }

// WithGlob makes Insert treat patterns as shell-style globs, translating
// them to regular expressions before compiling.
func WithGlob() RegexMapOption { return func(m *RegexMap) { m.glob = true } }

// WithMultiple sets the map's multiple-match flag. Neither MatchSingle nor
// MatchAll reads it: MatchSingle always stops at the first hit and MatchAll
// always reports every hit, whichever options the map was built with.
func WithMultiple() RegexMapOption { return func(m *RegexMap) { m.multiple = true } }

func NewRegexMap(pool *matchpool.Pool, opts ...RegexMapOption) *RegexMap {
	m := &RegexMap{pool: pool, logger: nopLogger{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func regexOptionsFor(mods kvlist.Modifiers) regexp2.RegexOptions {
	opts := regexp2.None
	if mods&kvlist.ModCaseless != 0 {
		opts |= regexp2.IgnoreCase
	}
	if mods&kvlist.ModMultiline != 0 {
		opts |= regexp2.Multiline
	}
	if mods&kvlist.ModDotAll != 0 {
		opts |= regexp2.Singleline
	}
	if mods&kvlist.ModUTF8 != 0 {
		opts |= regexp2.Unicode
	}
	if mods&kvlist.ModExtended != 0 {
		opts |= regexp2.IgnorePatternWhitespace
	}
	return opts
}

// Insert compiles pattern (translated from a glob first, if WithGlob was
// set) with the given modifier flags and appends it to the generation
// under construction. A compile failure is returned to the caller and the
// pattern is skipped, the stream of later patterns is unaffected.
func (m *RegexMap) Insert(pattern string, mods kvlist.Modifiers, value any) error {
	src := pattern
	if m.glob {
		src = globToRegex(pattern)
	}
	opts := regexOptionsFor(mods)
	re, err := regexp2.Compile(src, opts)
	if err != nil {
		m.logger.Errf("regexmap", "compile %q: %v", pattern, err)
		return err
	}
	// The map's UTF flag is derived, not configured: once any member
	// pattern in this generation declares UTF mode, the whole generation
	// validates candidates as UTF-8 before matching.
	if mods&kvlist.ModUTF8 != 0 {
		m.utf = true
	}
	m.building = append(m.building, regexEntry{pattern: re, source: pattern, opts: opts, rec: &record{value: value}})
	m.order = append(m.order, pattern)
	return nil
}

// Finalize publishes the generation under construction, attempting to
// build a MultiMatcher to accelerate future Match calls, and returns the
// insertion-order fingerprint.
func (m *RegexMap) Finalize() uint64 {
	data := &regexMapData{entries: m.building, order: m.order, utf: m.utf}

	h := xxhash.New()
	for _, p := range m.order {
		_, _ = h.Write([]byte(p))
	}
	fp := h.Sum64()

	data.multi = buildMultiMatcher(data.entries)

	m.gen.Finalize(m.pool, "regexmap.go", data, func(*regexMapData) {})
	m.building = nil
	m.order = nil
	m.utf = false
	return fp
}

// Abort discards the generation under construction.
func (m *RegexMap) Abort() {
	m.gen.Abort(&regexMapData{entries: m.building}, func(*regexMapData) {})
	m.building = nil
	m.order = nil
	m.utf = false
}

// MatchSingle returns the value of the first pattern that matches
// candidate, or ok=false if none do. If any pattern in the published
// generation declared UTF mode and candidate is not valid UTF-8,
// ErrInvalidUTF8 is returned.
func (m *RegexMap) MatchSingle(candidate []byte) (any, bool, error) {
	data := m.gen.Read()
	if data == nil {
		return nil, false, nil
	}
	if data.utf && !utf8.Valid(candidate) {
		return nil, false, matchpool.ErrInvalidUTF8
	}
	s := string(candidate)

	if data.multi != nil {
		if id, ok := data.multi.ScanSingle(candidate); ok {
			e := &data.entries[id]
			return e.rec.hit(), true, nil
		}
		return nil, false, nil
	}

	for i := range data.entries {
		e := &data.entries[i]
		match, err := e.pattern.FindStringMatch(s)
		if err != nil {
			continue
		}
		if match != nil {
			return e.rec.hit(), true, nil
		}
	}
	return nil, false, nil
}

// MatchAll reports every pattern that matches candidate via report, in
// insertion order. Intended for maps built WithMultiple.
func (m *RegexMap) MatchAll(candidate []byte, report func(value any)) error {
	data := m.gen.Read()
	if data == nil {
		return nil
	}
	if data.utf && !utf8.Valid(candidate) {
		return matchpool.ErrInvalidUTF8
	}
	s := string(candidate)

	if data.multi != nil {
		data.multi.ScanAll(candidate, func(id int) {
			report(data.entries[id].rec.hit())
		})
		return nil
	}

	for i := range data.entries {
		e := &data.entries[i]
		match, err := e.pattern.FindStringMatch(s)
		if err != nil || match == nil {
			continue
		}
		report(e.rec.hit())
	}
	return nil
}

// Traverse visits every pattern of the currently published generation in
// insertion order.
func (m *RegexMap) Traverse(resetHits bool, fn func(pattern string, value any, hits uint64)) {
	data := m.gen.Read()
	if data == nil {
		return
	}
	for i := range data.entries {
		e := &data.entries[i]
		hits := e.rec.hits.Load()
		fn(e.source, e.rec.value, hits)
		if resetHits {
			e.rec.hits.Store(0)
		}
	}
}

// globToRegex translates a shell-style glob (`*`, `?`, `[...]`) into an
// anchored regular expression, escaping every other regex metacharacter
// literally.
func globToRegex(glob string) string {
	var sb strings.Builder
	sb.WriteByte('^')
	inClass := false
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case inClass:
			sb.WriteByte(c)
			if c == ']' {
				inClass = false
			}
		case c == '*':
			sb.WriteString(".*")
		case c == '?':
			sb.WriteByte('.')
		case c == '[':
			inClass = true
			sb.WriteByte(c)
		case strings.ContainsRune(`.+()^$|\{}`, rune(c)):
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('$')
	return sb.String()
}
