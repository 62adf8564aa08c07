// Package gold merges the annotations of two annotators into one adjudicated
// ("gold") annotation, following a configurable conflict resolution policy,
// and records every conflict it had to settle.
package gold

import (
	"fmt"
	"sort"

	sent "github.com/revelaction/goldtree/sentence"
)

const (
	// PlaceholderDeprel is the relation of the artificial root edge
	PlaceholderDeprel = "dep"

	// MaxNotes is the number of conflict notes written per sentence
	MaxNotes = 30
)

// Row is one merged token with its resolved edge.
type Row struct {
	Token  sent.Token `json:"token"`
	Head   int        `json:"head"`
	Deprel string     `json:"deprel"`
	Tags   Tags       `json:"tags"`
}

// SentenceRecord is the merge result of one sentence position.
type SentenceRecord struct {
	// Index is the 0 based position in the document
	Index int    `json:"index"`
	Text  string `json:"text"`
	Rows  []Row  `json:"rows"`

	// Notes is the conflict log, in token order
	Notes []string `json:"notes"`
}

// Output is the result of a merge. It is not modified after Generate.
type Output struct {
	A         string           `json:"a"`
	B         string           `json:"b"`
	Options   Options          `json:"options"`
	Sentences []SentenceRecord `json:"sentences"`
}

// Generate merges the annotators a and b of doc. a and b are resolved with
// Document.Lookup. Errors are *SelectionError and are returned before any
// merging happens.
func Generate(doc sent.Document, a, b string, opts Options) (Output, error) {
	switch {
	case a == "" && b == "":
		return Output{}, &SelectionError{Field: "a,b", Err: ErrNoAnnotator}
	case a == "":
		return Output{}, &SelectionError{Field: "a", Err: ErrNoAnnotator}
	case b == "":
		return Output{}, &SelectionError{Field: "b", Err: ErrNoAnnotator}
	}

	ia, ok := doc.Lookup(a)
	if !ok {
		return Output{}, &SelectionError{Field: "a", Err: fmt.Errorf("%w: %q", ErrUnknownAnnotator, a)}
	}

	ib, ok := doc.Lookup(b)
	if !ok {
		return Output{}, &SelectionError{Field: "b", Err: fmt.Errorf("%w: %q", ErrUnknownAnnotator, b)}
	}

	if ia == ib {
		return Output{}, &SelectionError{Field: "a,b", Err: ErrSameAnnotator}
	}

	if err := opts.Validate(); err != nil {
		return Output{}, err
	}

	annA, annB := doc.Annotators[ia], doc.Annotators[ib]
	out := Output{A: annA.Name, B: annB.Name, Options: opts}

	count := len(annA.Sentences)
	switch opts.SentCountMode {
	case CountMax:
		count = max(len(annA.Sentences), len(annB.Sentences))
	case CountMin:
		count = min(len(annA.Sentences), len(annB.Sentences))
	}

	for i := 0; i < count; i++ {
		rec, ok := mergeSentence(i, annA.Sentence(i), annB.Sentence(i), opts)
		if !ok {
			continue
		}
		out.Sentences = append(out.Sentences, rec)
	}

	return out, nil
}

// Text runs Generate and returns the CoNLL-U export.
func Text(doc sent.Document, a, b string, opts Options) (string, error) {
	out, err := Generate(doc, a, b, opts)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// merger resolves the tokens of one sentence and collects its notes
type merger struct {
	opts  Options
	notes []string
}

func (m *merger) note(format string, args ...any) {
	m.notes = append(m.notes, fmt.Sprintf(format, args...))
}

// mergeSentence returns false when neither annotator has a token.
func mergeSentence(idx int, sa, sb sent.Sentence, opts Options) (SentenceRecord, bool) {
	ids := unionIds(sa, sb)
	if len(ids) == 0 {
		return SentenceRecord{}, false
	}

	inSentence := make(map[int]bool, len(ids))
	for _, id := range ids {
		inSentence[id] = true
	}

	m := &merger{opts: opts}
	rec := SentenceRecord{Index: idx, Text: preferred(sa.Text(), sb.Text(), opts.TokenMode)}

	for _, id := range ids {
		tok, tags := m.token(id, sa, sb)

		edge, edgeTags := m.edge(id, edgeOf(sa, id), edgeOf(sb, id))
		tags |= edgeTags

		if opts.FixOrphanHeads && edge.Head != 0 && !inSentence[edge.Head] {
			m.note("tok=%d: orphan head=%d (-> 0)", id, edge.Head)
			tags = tags.With(TagOrphanHead)
			edge = artificialRoot()
		}

		rec.Rows = append(rec.Rows, Row{Token: tok, Head: edge.Head, Deprel: edge.Deprel, Tags: tags})
	}

	rec.Notes = m.notes
	return rec, true
}

func (m *merger) token(id int, sa, sb sent.Sentence) (sent.Token, Tags) {
	ta, okA := sa.Token(id)
	tb, okB := sb.Token(id)

	var tags Tags
	if !okA && !okB {
		m.note("tok=%d: missing in both", id)
		return sent.Token{Id: id, Form: "_", Upos: "_", Xpos: "_"}, tags.With(TagTokMissing)
	}

	chosen := ta
	if (m.opts.TokenMode == SideB && okB) || !okA {
		chosen = tb
	}
	chosen.Id = id

	if okA && okB && (ta.Form != tb.Form || ta.Upos != tb.Upos || ta.Xpos != tb.Xpos) {
		m.note("tok=%d: mismatch A=(%s,%s,%s) B=(%s,%s,%s)", id, ta.Form, ta.Upos, ta.Xpos, tb.Form, tb.Upos, tb.Xpos)
		tags = tags.With(TagTokMismatch)
	}

	return chosen, tags
}

// edge applies the Mode policy to the edges of dependent dep. A nil edge is
// absent in that annotator.
func (m *merger) edge(dep int, ea, eb *sent.Edge) (sent.Edge, Tags) {
	var tags Tags

	unresolved := func(why string) (sent.Edge, Tags) {
		m.note("dep=%d: %s", dep, why)
		return artificialRoot(), tags.With(TagConflict)
	}

	// label settles a label disagreement with the LabelMode tie-break
	label := func() string {
		if ea.Deprel == eb.Deprel {
			return ea.Deprel
		}
		m.note("dep=%d: label-diff (%s chosen) A=%s B=%s", dep, m.opts.LabelMode.Letter(), ea.Deprel, eb.Deprel)
		tags = tags.With(TagLabelDiff)
		if m.opts.LabelMode == SideB {
			return eb.Deprel
		}
		return ea.Deprel
	}

	switch m.opts.Mode {
	case PreferA, PreferB:
		first, second := ea, eb
		if m.opts.Mode == PreferB {
			first, second = eb, ea
		}
		switch {
		case first != nil:
			return *first, tags
		case second != nil:
			return *second, tags
		}
		return unresolved("missing in both")

	case UnionPreferA, UnionPreferB:
		side := SideA
		first, second := ea, eb
		if m.opts.Mode == UnionPreferB {
			side = SideB
			first, second = eb, ea
		}
		switch {
		case first != nil && second != nil && first.Head == second.Head:
			deprel := label()
			return sent.Edge{Head: first.Head, Deprel: deprel}, tags
		case first != nil && second != nil:
			m.note("dep=%d: head-conflict (%s chosen) A=%d B=%d", dep, side.Letter(), ea.Head, eb.Head)
			return *first, tags.With(TagHeadConflict)
		case first != nil:
			return *first, tags
		case second != nil:
			return *second, tags
		}
		return unresolved("missing in both")

	case Intersection:
		switch {
		case ea != nil && eb != nil && ea.Head == eb.Head:
			deprel := label()
			return sent.Edge{Head: ea.Head, Deprel: deprel}, tags
		case ea != nil && eb != nil:
			return unresolved(fmt.Sprintf("head-conflict (intersection) A=%d B=%d", ea.Head, eb.Head))
		case ea != nil:
			return unresolved("only in A (intersection)")
		case eb != nil:
			return unresolved("only in B (intersection)")
		}
		return unresolved("missing in both")

	case StrictAgree:
		switch {
		case ea != nil && eb != nil && ea.Head != eb.Head:
			return unresolved(fmt.Sprintf("head-conflict (strict) A=%d B=%d", ea.Head, eb.Head))
		case ea != nil && eb != nil && ea.Deprel != eb.Deprel:
			return unresolved(fmt.Sprintf("label-conflict (strict) A=%s B=%s", ea.Deprel, eb.Deprel))
		case ea != nil && eb != nil:
			return *ea, tags
		case ea != nil:
			return unresolved("only in A (strict)")
		case eb != nil:
			return unresolved("only in B (strict)")
		}
		return unresolved("missing in both")
	}

	// Options.Validate rejects undefined modes before merging starts
	panic(fmt.Sprintf("gold: unhandled mode %d", int(m.opts.Mode)))
}

func artificialRoot() sent.Edge {
	return sent.Edge{Head: 0, Deprel: PlaceholderDeprel}
}

func edgeOf(s sent.Sentence, dep int) *sent.Edge {
	e, ok := s.Edge(dep)
	if !ok {
		return nil
	}
	return &e
}

func unionIds(sa, sb sent.Sentence) []int {
	seen := map[int]bool{}
	ids := []int{}
	for _, s := range []sent.Sentence{sa, sb} {
		for id := range s.Tokens {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

func preferred(a, b string, side Side) string {
	if side == SideB {
		a, b = b, a
	}
	if a != "" {
		return a
	}
	return b
}
