// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx

import (
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/sys/cpu"
)

// MultiMatcher is a precompiled multi-pattern scanner: a single pass over
// the candidate reports which of a RegexMap's patterns matched, by index.
// RegexMap always obtains its MultiMatcher from buildMultiMatcher; it has no
// option for supplying another implementation.
type MultiMatcher interface {
	// ScanSingle returns the index of the first pattern that matches data.
	ScanSingle(data []byte) (id int, ok bool)
	// ScanAll reports every pattern index that matches data, in ascending
	// pattern order.
	ScanAll(data []byte, report func(id int))
}

// buildMultiMatcher combines every entry's compiled pattern text (after glob
// translation) into one alternation and compiles it once, provided no entry
// was compiled with modifier options, the same feature-gated shortcut the
// finalization path reaches for when the host supports it: here that gate
// is SSSE3, mirrored from the original design even though this pure-Go
// path does not itself require the instruction set, so that a host
// reported as lacking it predictably exercises the per-pattern fallback
// instead.
func buildMultiMatcher(entries []regexEntry) MultiMatcher {
	if len(entries) == 0 || !cpu.X86.HasSSSE3 {
		return nil
	}

	var sb strings.Builder
	opts := regexp2.None
	for i, e := range entries {
		if e.opts != regexp2.None {
			// Per-pattern options cannot be carried into the shared
			// alternation; scan patterns individually instead.
			return nil
		}
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString("(")
		sb.WriteString(e.pattern.String())
		sb.WriteString(")")
	}
	re, err := regexp2.Compile(sb.String(), opts)
	if err != nil {
		// Some per-pattern flag combination doesn't survive being
		// merged into one alternation (e.g. conflicting anchors); fall
		// back to scanning patterns individually.
		return nil
	}
	return &combinedMatcher{re: re, n: len(entries)}
}

type combinedMatcher struct {
	re *regexp2.Regexp
	n  int
}

func (c *combinedMatcher) idOf(m *regexp2.Match) (int, bool) {
	for i := 1; i <= c.n; i++ {
		g := m.GroupByNumber(i)
		if g != nil && len(g.Captures) > 0 {
			return i - 1, true
		}
	}
	return 0, false
}

func (c *combinedMatcher) ScanSingle(data []byte) (int, bool) {
	m, err := c.re.FindStringMatch(string(data))
	if err != nil || m == nil {
		return 0, false
	}
	return c.idOf(m)
}

func (c *combinedMatcher) ScanAll(data []byte, report func(id int)) {
	s := string(data)
	seen := make(map[int]bool, c.n)
	m, err := c.re.FindStringMatch(s)
	for err == nil && m != nil {
		if id, ok := c.idOf(m); ok && !seen[id] {
			seen[id] = true
			report(id)
		}
		m, err = c.re.FindNextMatch(m)
	}
}
