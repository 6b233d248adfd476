package tree

import (
	"testing"
)

func TestIndexBasics(t *testing.T) {
	ix := NewIndex()
	n := NewNode("a", nil)

	ix.Set("a", n)
	if got := ix.Get("a"); got != n {
		t.Fatalf("Get(a) = %v", got)
	}
	if ix.Len() != 1 {
		t.Errorf("Len = %d", ix.Len())
	}

	ix.Delete("a")
	if ix.Get("a") != nil {
		t.Error("entry survived Delete")
	}
}

func TestIndexEmptyIDNotIndexable(t *testing.T) {
	ix := NewIndex()
	ix.Set("", NewNode("", nil))
	if ix.Len() != 0 {
		t.Error("empty id must not be indexed")
	}
	if ix.Get("") != nil {
		t.Error("empty id lookup must return nil")
	}
}

func TestIndexOverwrite(t *testing.T) {
	ix := NewIndex()
	first := NewNode("dup", nil)
	second := NewNode("dup", nil)

	ix.Set("dup", first)
	ix.Set("dup", second)
	if got := ix.Get("dup"); got != second {
		t.Error("later Set must win")
	}
}

func TestIndexClear(t *testing.T) {
	ix := NewIndex()
	ix.Set("a", NewNode("a", nil))
	ix.Set("b", NewNode("b", nil))

	ix.Clear()
	if ix.Len() != 0 || ix.Get("a") != nil {
		t.Error("Clear left entries behind")
	}
}
