package assemble

import (
	"strings"
	"testing"
	"unicode/utf16"

	"pgregory.net/rapid"

	"github.com/vietddude/glossary/internal/core/domain"
)

// For any entry text, the insert carries a trailing newline and the style
// range covers the text alone in UTF-16 units.
func TestBuildRequests_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[^\n]{0,40}`).Draw(rt, "text")
		level := domain.HeadingLevel(rapid.IntRange(0, 2).Draw(rt, "level"))

		ops := BuildRequests(text, level)
		if len(ops) != 2 {
			rt.Fatalf("expected 2 ops, got %d", len(ops))
		}

		ins := ops[0].InsertText
		if ins.Index != domain.AnchorIndex || ins.Text != text+"\n" {
			rt.Fatalf("unexpected insert %+v", ins)
		}

		st := ops[1].UpdateStyle
		want := domain.AnchorIndex + int64(len(utf16.Encode([]rune(text))))
		if st.StartIndex != domain.AnchorIndex || st.EndIndex != want {
			rt.Fatalf("style range [%d, %d), want [1, %d)", st.StartIndex, st.EndIndex, want)
		}

		if level == domain.HeadingNone {
			if st.NamedStyle != "NORMAL_TEXT" {
				rt.Fatalf("level 0 style = %s", st.NamedStyle)
			}
		} else if !strings.HasPrefix(st.NamedStyle, "HEADING_") {
			rt.Fatalf("level %d style = %s", level, st.NamedStyle)
		}
	})
}
