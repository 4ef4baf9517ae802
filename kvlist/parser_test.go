// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kvlist_test

import (
	"testing"

	"code.hybscloud.com/matchpool/kvlist"
)

func TestParserBasicLines(t *testing.T) {
	var got []kvlist.Pair
	p := kvlist.New(func(pr kvlist.Pair) { got = append(got, pr) })

	p.Feed([]byte("foo bar\nbaz = qux\n# a comment\nplain\n"), true)

	want := []kvlist.Pair{
		{Key: "foo", Value: "bar"},
		{Key: "baz", Value: "qux"},
		{Key: "plain", Value: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d pairs, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pair %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParserResumesAcrossChunkBoundary(t *testing.T) {
	var got []kvlist.Pair
	p := kvlist.New(func(pr kvlist.Pair) { got = append(got, pr) })

	p.Feed([]byte("fo"), false)
	p.Feed([]byte("o ba"), false)
	p.Feed([]byte("r\n"), true)

	if len(got) != 1 || got[0].Key != "foo" || got[0].Value != "bar" {
		t.Fatalf("got %+v", got)
	}
}

func TestParserQuotedKey(t *testing.T) {
	var got []kvlist.Pair
	p := kvlist.New(func(pr kvlist.Pair) { got = append(got, pr) })

	p.Feed([]byte(`"has space" value here`+"\n"), true)

	if len(got) != 1 || got[0].Key != "has space" || got[0].Value != "value here" {
		t.Fatalf("got %+v", got)
	}
}

func TestParserSlashedKeyWithModifiers(t *testing.T) {
	var got []kvlist.Pair
	p := kvlist.New(func(pr kvlist.Pair) { got = append(got, pr) })

	p.Feed([]byte("/foo.*bar/im some-value\n"), true)

	if len(got) != 1 {
		t.Fatalf("got %d pairs", len(got))
	}
	pr := got[0]
	if !pr.Slashed || pr.Key != "foo.*bar" || pr.Value != "some-value" {
		t.Fatalf("got %+v", pr)
	}
	if pr.Modifiers&kvlist.ModCaseless == 0 || pr.Modifiers&kvlist.ModMultiline == 0 {
		t.Fatalf("expected caseless+multiline modifiers, got %b", pr.Modifiers)
	}
}

func TestParserFinalWithoutTrailingNewline(t *testing.T) {
	var got []kvlist.Pair
	p := kvlist.New(func(pr kvlist.Pair) { got = append(got, pr) })

	p.Feed([]byte("lastkey lastvalue"), true)

	if len(got) != 1 || got[0].Key != "lastkey" || got[0].Value != "lastvalue" {
		t.Fatalf("got %+v", got)
	}
}

func TestParserEscapedCharactersInQuotedKey(t *testing.T) {
	var got []kvlist.Pair
	p := kvlist.New(func(pr kvlist.Pair) { got = append(got, pr) })

	p.Feed([]byte(`"quote\"inside" v`+"\n"), true)

	if len(got) != 1 || got[0].Key != `quote"inside` {
		t.Fatalf("got %+v", got)
	}
}
