package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matheuspbmarques/go-useform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.VersionField("version", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"version":  "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"_csrf", "existing", "version"}, render.HiddenNames(merged)); diff != "" {
		t.Fatalf("hidden names mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenInputs(t *testing.T) {
	got := render.HiddenInputs(map[string]string{"_csrf": `a"b`, "version": "2"})
	want := `<input type="hidden" name="_csrf" value="a&#34;b"><input type="hidden" name="version" value="2">`
	if string(got) != want {
		t.Fatalf("unexpected markup:\n got %s\nwant %s", got, want)
	}
}
