// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchidx_test

import (
	"testing"

	"code.hybscloud.com/matchpool"
	"code.hybscloud.com/matchpool/kvlist"
	"code.hybscloud.com/matchpool/matchidx"
)

func TestRegexMapSingleMatch(t *testing.T) {
	pool := matchpool.NewPool("test.regex", "regexmap_test.go")
	defer pool.Delete()

	m := matchidx.NewRegexMap(pool)
	if err := m.Insert(`^foo.*bar$`, 0, "matched-foo"); err != nil {
		t.Fatal(err)
	}
	m.Finalize()

	v, ok, err := m.MatchSingle([]byte("foobazbar"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v.(string) != "matched-foo" {
		t.Fatalf("got %v, %v", v, ok)
	}

	_, ok, err = m.MatchSingle([]byte("no match here"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("expected no match")
	}
}

func TestRegexMapCaselessModifier(t *testing.T) {
	pool := matchpool.NewPool("test.regex.caseless", "regexmap_test.go")
	defer pool.Delete()

	m := matchidx.NewRegexMap(pool)
	if err := m.Insert(`^hello$`, kvlist.ModCaseless, "hi"); err != nil {
		t.Fatal(err)
	}
	m.Finalize()

	v, ok, err := m.MatchSingle([]byte("HELLO"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v.(string) != "hi" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestRegexMapSkipsUTF8GuardWithoutUTFPattern(t *testing.T) {
	pool := matchpool.NewPool("test.regex.utf8.off", "regexmap_test.go")
	defer pool.Delete()

	m := matchidx.NewRegexMap(pool)
	_ = m.Insert(`.*`, 0, "anything")
	m.Finalize()

	_, _, err := m.MatchSingle([]byte{0xff, 0xfe, 0xfd})
	if err != nil {
		t.Fatalf("got %v, want no error: no inserted pattern declared UTF mode", err)
	}
}

func TestRegexMapInvalidUTF8Guard(t *testing.T) {
	pool := matchpool.NewPool("test.regex.utf8.on", "regexmap_test.go")
	defer pool.Delete()

	m := matchidx.NewRegexMap(pool)
	_ = m.Insert(`.*`, kvlist.ModUTF8, "anything")
	m.Finalize()

	_, _, err := m.MatchSingle([]byte{0xff, 0xfe, 0xfd})
	if err != matchpool.ErrInvalidUTF8 {
		t.Fatalf("got %v, want ErrInvalidUTF8", err)
	}
}

func TestRegexMapGlobMode(t *testing.T) {
	pool := matchpool.NewPool("test.regex.glob", "regexmap_test.go")
	defer pool.Delete()

	m := matchidx.NewRegexMap(pool, matchidx.WithGlob())
	if err := m.Insert("*.example.com", 0, "subdomain"); err != nil {
		t.Fatal(err)
	}
	m.Finalize()

	v, ok, err := m.MatchSingle([]byte("mail.example.com"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v.(string) != "subdomain" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestRegexMapMatchAll(t *testing.T) {
	pool := matchpool.NewPool("test.regex.all", "regexmap_test.go")
	defer pool.Delete()

	m := matchidx.NewRegexMap(pool, matchidx.WithMultiple())
	_ = m.Insert(`foo`, 0, "has-foo")
	_ = m.Insert(`bar`, 0, "has-bar")
	m.Finalize()

	var got []any
	err := m.MatchAll([]byte("foobar"), func(value any) { got = append(got, value) })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}
