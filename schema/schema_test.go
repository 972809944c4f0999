package schema

import (
	"testing"

	"github.com/scrivlet/editorcore/model"
)

func TestRegisterNodeDuplicateFails(t *testing.T) {
	r := New()
	spec := NodeSpec{Type: "paragraph", Content: model.ContentRule{Kind: model.ContentInline}}
	if err := r.RegisterNode(spec); err != nil {
		t.Fatalf("first registration should succeed: %v", err)
	}
	if err := r.RegisterNode(spec); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegisterKeymapCollisionLogsNotThrows(t *testing.T) {
	r := New()
	var collided string
	r.OnKeymapCollision(func(key string) { collided = key })
	r.RegisterKeymap(Keymap{Key: "Mod-b", Command: "toggleBold"})
	r.RegisterKeymap(Keymap{Key: "Mod-b", Command: "other"})

	if collided != "Mod-b" {
		t.Fatalf("expected collision callback for Mod-b, got %q", collided)
	}
	k, _ := r.GetKeymap("Mod-b")
	if k.Command != "other" {
		t.Fatalf("expected last-in to win, got %q", k.Command)
	}
}

func TestFileHandlerMatching(t *testing.T) {
	r := New()
	_ = r.RegisterFileHandler(FileHandler{ID: "a", MIME: "image/png"})
	_ = r.RegisterFileHandler(FileHandler{ID: "b", MIME: "image/*"})
	_ = r.RegisterFileHandler(FileHandler{ID: "c", MIME: "*"})
	_ = r.RegisterFileHandler(FileHandler{ID: "d", MIME: "text/plain"})

	matches := r.FileHandlersFor("image/png")
	if len(matches) != 3 {
		t.Fatalf("expected exact+suffix+universal matches for image/png, got %d: %+v", len(matches), matches)
	}

	textMatches := r.FileHandlersFor("text/plain")
	if len(textMatches) != 2 {
		t.Fatalf("expected exact+universal for text/plain, got %d", len(textMatches))
	}
}

func TestGetAllowedTagsUnion(t *testing.T) {
	r := New()
	if err := RegisterBasic(r); err != nil {
		t.Fatalf("RegisterBasic: %v", err)
	}
	tags := r.GetAllowedTags()
	mustContain(t, tags, "p", "strong", "a", "pre")
}

func TestSortedMarkTypesOrdersByRank(t *testing.T) {
	r := New()
	_ = RegisterBasic(r)
	types := r.SortedMarkTypes()
	if types[0] != "link" {
		t.Fatalf("expected link (rank 10) first, got %v", types)
	}
}

func mustContain(t *testing.T, haystack []string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		found := false
		for _, h := range haystack {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %q in %v", w, haystack)
		}
	}
}
