// Package render formats comparison reports as text trees and sentence lists
// for terminals and text exports.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/revelaction/goldtree/compare"
	sent "github.com/revelaction/goldtree/sentence"
)

const (
	EmojiSame      = "✅"
	EmojiLabelDiff = "⚠️"
	EmojiPartial   = "➖"
	EmojiCycle     = "🔁"
	EmojiRoot      = "🌱"
	EmojiSentence  = "📝"
	EmojiTextDiff  = "✍️"

	// Missing is shown for a value an annotator does not have
	Missing = "∅"

	// Unknown is shown for a token no annotator has
	Unknown = "❓"
)

var (
	styleSame      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	styleLabelDiff = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB300")).Bold(true)
	stylePartial   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")).Bold(true)
	styleHeader    = lipgloss.NewStyle().Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type Renderer struct {
	HasColor bool

	// OnlyDiffEdges hides the lines of edges all annotators agree on. The
	// traversal and the counters are not affected.
	OnlyDiffEdges bool

	// ShowPos appends [{upos|xpos}] to the token display
	ShowPos bool
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Tree renders the sentence header and the union tree of rep, one element
// per line, without trailing blank lines.
func (r *Renderer) Tree(doc sent.Document, rep compare.Report) []string {
	lines := r.header(doc, rep)

	compare.Walk(rep, func(s compare.Step) {
		switch s.Kind {
		case compare.StepRoot:
			if s.Dep != rep.Roots[0] {
				lines = append(lines, "")
			}
			lines = append(lines, EmojiRoot+" "+r.token(rep, s.Dep))

		case compare.StepEdge:
			st := rep.Status(compare.UnionEdge{Dep: s.Dep, Head: s.Head})
			if r.OnlyDiffEdges && st.Kind == compare.Same {
				return
			}

			conn := "├─"
			if s.Last {
				conn = "└─"
			}
			lines = append(lines, fmt.Sprintf("%s%s %s %s → %s", prefix(s.Trail), conn, r.emoji(st.Kind), st.Text(), r.token(rep, s.Dep)))

		case compare.StepCycle:
			lines = append(lines, prefix(s.Trail)+EmojiCycle+" (cycle)")
		}
	})

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// TreeString joins the Tree lines, right trimmed.
func (r *Renderer) TreeString(doc sent.Document, rep compare.Report) string {
	return strings.TrimRight(strings.Join(r.Tree(doc, rep), "\n"), " \t\n")
}

// Meta is the one line summary of a report.
func (r *Renderer) Meta(rep compare.Report) string {
	line := fmt.Sprintf("Annotators: %d · Union: %d · missing: %d · label-diff: %d",
		len(rep.Names), len(rep.Union), rep.MissingEdges, rep.LabelDiffEdges)
	return r.color(styleMuted, line)
}

// Entry renders a sentence list line: S<n>, text and diff badges.
func (r *Renderer) Entry(e compare.Entry) string {
	badges := []string{}
	if e.AnyTextDiff {
		badges = append(badges, EmojiTextDiff+" Text")
	}
	if e.LabelDiffEdges > 0 {
		badges = append(badges, r.color(styleLabelDiff, fmt.Sprintf("%s %d", EmojiLabelDiff, e.LabelDiffEdges)))
	}
	if e.MissingEdges > 0 {
		badges = append(badges, r.color(stylePartial, fmt.Sprintf("%s %d", EmojiPartial, e.MissingEdges)))
	}
	if !e.HasDiff() {
		badges = append(badges, EmojiSame)
	}

	return fmt.Sprintf("%5s  %s  %s", fmt.Sprintf("S%d", e.Index+1), e.Text, strings.Join(badges, " "))
}

func (r *Renderer) header(doc sent.Document, rep compare.Report) []string {
	title := fmt.Sprintf("%s S%d: %s", EmojiSentence, rep.Index+1, rep.BaseText())
	if rep.AnyTextDiff {
		title += "  " + EmojiTextDiff + "(Text-Diff)"
	}

	lines := []string{r.color(styleHeader, title)}
	if rep.AnyTextDiff {
		for i, a := range doc.Annotators {
			text := ""
			if i < len(rep.Texts) {
				text = rep.Texts[i]
			}
			lines = append(lines, fmt.Sprintf("   · %s: %s", a.Name, text))
		}
	}

	return append(lines, "")
}

// token shows the token id with its form, or the form of every annotator
// when they are not the same everywhere.
func (r *Renderer) token(rep compare.Report, id int) string {
	toks := make([]*sent.Token, len(rep.Sentences))
	present := 0
	forms := map[string]bool{}
	for i, s := range rep.Sentences {
		if t, ok := s.Token(id); ok {
			toks[i] = &t
			present++
			forms[t.Form] = true
		}
	}

	if present == 0 {
		return fmt.Sprintf("%d:%s", id, Unknown)
	}

	if len(forms) == 1 && present == len(toks) {
		return fmt.Sprintf("%d:%s%s", id, toks[0].Form, r.pos(toks[0]))
	}

	parts := make([]string, len(toks))
	for i, t := range toks {
		name := ""
		if i < len(rep.Names) {
			name = rep.Names[i]
		}
		if t == nil {
			parts[i] = name + "=" + Missing
			continue
		}
		parts[i] = name + "=" + t.Form + r.pos(t)
	}

	return fmt.Sprintf("%d:%s", id, strings.Join(parts, " | "))
}

func (r *Renderer) pos(t *sent.Token) string {
	if !r.ShowPos {
		return ""
	}

	upos, xpos := t.Upos, t.Xpos
	if upos == "" {
		upos = Missing
	}
	if xpos == "" {
		xpos = Missing
	}
	return "[{" + upos + "|" + xpos + "}]"
}

func (r *Renderer) emoji(k compare.Kind) string {
	switch k {
	case compare.Same:
		return r.color(styleSame, EmojiSame)
	case compare.LabelDiff:
		return r.color(styleLabelDiff, EmojiLabelDiff)
	}
	return r.color(stylePartial, EmojiPartial)
}

func (r *Renderer) color(style lipgloss.Style, s string) string {
	if !r.HasColor {
		return s
	}
	return style.Render(s)
}

// prefix draws the vertical guides of the ancestors: a bar while the
// ancestor edge has siblings below it.
func prefix(trail []bool) string {
	var sb strings.Builder
	for _, last := range trail {
		if last {
			sb.WriteString("  ")
		} else {
			sb.WriteString("│ ")
		}
	}
	return sb.String()
}
