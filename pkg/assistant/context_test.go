package assistant

import (
	"strings"
	"testing"

	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/store"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Subtask{
		{Name: "Chassis", Team: 1, Bag: "A1", FinalAssemblyPages: []int{1, 2}},
		{Name: "Gearbox", Team: 2, Bag: "B2", SubassemblyPages: []int{5}, FinalAssemblyPages: []int{3}},
		{Name: "Cabin", Team: 3, Bag: "C3", FinalAssemblyPages: []int{7}},
	})
}

func TestBuildContextFirstPosition(t *testing.T) {
	cat := testCatalog()
	s := store.NewSession("id", "student", 1)
	sub, _ := cat.At(0)

	ctx := BuildContext(s, sub, cat)

	if ctx.SubtaskName != "Chassis" || ctx.Bag != "A1" || ctx.TeamNumber != 1 {
		t.Errorf("unexpected context: %+v", ctx)
	}
	if ctx.GiverTeam != nil {
		t.Error("first position must have no giver team")
	}
	if ctx.ReceiverTeam == nil || *ctx.ReceiverTeam != 2 {
		t.Errorf("ReceiverTeam = %v, want 2", ctx.ReceiverTeam)
	}
	if !strings.Contains(ctx.SequenceSummary, "2. Gearbox (team 2)") {
		t.Errorf("sequence summary missing entries:\n%s", ctx.SequenceSummary)
	}
}

func TestBuildContextLastPosition(t *testing.T) {
	cat := testCatalog()
	s := store.NewSession("id", "student", 3)
	sub, _ := cat.At(2)

	ctx := BuildContext(s, sub, cat)

	if ctx.GiverTeam == nil || *ctx.GiverTeam != 2 {
		t.Errorf("GiverTeam = %v, want 2", ctx.GiverTeam)
	}
	if ctx.ReceiverTeam != nil {
		t.Error("last position must have no receiver team")
	}
}

func TestSystemPromptMentionsEdges(t *testing.T) {
	cat := testCatalog()

	first := BuildContext(store.NewSession("id", "a", 1), mustAt(t, cat, 0), cat)
	prompt := SystemPrompt(first)
	if !strings.Contains(prompt, "nothing to receive") {
		t.Error("first-position prompt should state there is nothing to receive")
	}
	if !strings.Contains(prompt, "Parts bag: A1") {
		t.Error("prompt should carry the bag identifier")
	}

	last := BuildContext(store.NewSession("id", "c", 3), mustAt(t, cat, 2), cat)
	prompt = SystemPrompt(last)
	if !strings.Contains(prompt, "no handover needed") {
		t.Error("last-position prompt should state no handover is needed")
	}
}

func mustAt(t *testing.T, cat *catalog.Catalog, i int) catalog.Subtask {
	t.Helper()
	sub, ok := cat.At(i)
	if !ok {
		t.Fatalf("At(%d) not found", i)
	}
	return sub
}

// fakeImageSource serves pages from a fixed set.
type fakeImageSource struct {
	pages map[int][]byte
}

func (f fakeImageSource) ReadPage(page int) ([]byte, bool) {
	data, ok := f.pages[page]
	return data, ok
}

func TestCollectImagesOmitsMissing(t *testing.T) {
	src := fakeImageSource{pages: map[int][]byte{
		1: []byte("one"),
		3: []byte("three"),
	}}
	ctx := Context{
		SubassemblyPages:   []int{1, 2},
		FinalAssemblyPages: []int{3, 4},
	}

	images := CollectImages(src, ctx, "low")
	if len(images) != 2 {
		t.Fatalf("got %d attachments, want 2 (missing pages omitted)", len(images))
	}
	for _, img := range images {
		if !strings.HasPrefix(img.DataURL, "data:image/png;base64,") {
			t.Errorf("attachment is not a data URL: %q", img.DataURL[:30])
		}
		if img.Detail != "low" {
			t.Errorf("detail = %q", img.Detail)
		}
	}
}

func TestCollectImagesDeduplicatesPages(t *testing.T) {
	src := fakeImageSource{pages: map[int][]byte{1: []byte("one")}}
	ctx := Context{
		SubassemblyPages:   []int{1},
		FinalAssemblyPages: []int{1},
	}

	if images := CollectImages(src, ctx, "auto"); len(images) != 1 {
		t.Errorf("got %d attachments, want 1", len(images))
	}
}

func TestCollectImagesAllMissing(t *testing.T) {
	src := fakeImageSource{pages: map[int][]byte{}}
	ctx := Context{FinalAssemblyPages: []int{8, 9}}

	if images := CollectImages(src, ctx, "low"); len(images) != 0 {
		t.Error("total absence of images must yield an empty attachment set")
	}
}
