// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package matchpool_test

import (
	"testing"

	"code.hybscloud.com/matchpool"
)

func TestPrependListOrder(t *testing.T) {
	p := matchpool.NewPool("test.list.prepend", "list_test.go")
	defer p.Delete()

	var head *matchpool.ListCell[int]
	for _, v := range []int{1, 2, 3} {
		head = matchpool.PrependList(p, head, v)
	}

	var got []int
	for c := head; c != nil; c = c.Next {
		got = append(got, c.Value)
	}
	want := []int{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAppendListOrder(t *testing.T) {
	p := matchpool.NewPool("test.list.append", "list_test.go")
	defer p.Delete()

	var head *matchpool.ListCell[string]
	for _, v := range []string{"a", "b", "c"} {
		head = matchpool.AppendList(p, head, v)
	}

	var got []string
	for c := head; c != nil; c = c.Next {
		got = append(got, c.Value)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAppendListOntoNilHead(t *testing.T) {
	p := matchpool.NewPool("test.list.append.nil", "list_test.go")
	defer p.Delete()

	head := matchpool.AppendList[int](p, nil, 7)
	if head == nil || head.Value != 7 || head.Next != nil {
		t.Fatalf("unexpected head: %+v", head)
	}
}
