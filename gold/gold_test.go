package gold

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sent "github.com/revelaction/goldtree/sentence"
)

// sentence builds n tokens w1..wn with the given edges.
func sentence(n int, edges map[int]sent.Edge) sent.Sentence {
	s := sent.Sentence{Tokens: map[int]sent.Token{}, Edges: map[int]sent.Edge{}}
	for i := 1; i <= n; i++ {
		s.Tokens[i] = sent.Token{Id: i, Form: fmt.Sprintf("w%d", i), Upos: "X", Xpos: "_"}
	}
	for dep, e := range edges {
		s.Edges[dep] = e
	}
	return s
}

func pair(sa, sb []sent.Sentence) sent.Document {
	return sent.Document{
		Key: "test",
		Annotators: []sent.Annotator{
			{Name: "anna", Source: "a.conllu", Sentences: sa},
			{Name: "ben", Source: "b.conllu", Sentences: sb},
		},
	}
}

func one(sa, sb sent.Sentence) sent.Document {
	return pair([]sent.Sentence{sa}, []sent.Sentence{sb})
}

func withMode(m Mode) Options {
	opts := DefaultOptions()
	opts.Mode = m
	return opts
}

func rowOf(t *testing.T, rec SentenceRecord, id int) Row {
	t.Helper()
	for _, r := range rec.Rows {
		if r.Token.Id == id {
			return r
		}
	}
	t.Fatalf("no row for token %d", id)
	return Row{}
}

func generate(t *testing.T, doc sent.Document, opts Options) Output {
	t.Helper()
	out, err := Generate(doc, "anna", "ben", opts)
	require.NoError(t, err)
	return out
}

func TestIntersectionOnlyInA(t *testing.T) {
	a := sentence(4, map[int]sent.Edge{2: {Head: 0, Deprel: "root"}, 4: {Head: 2, Deprel: "obj"}})
	b := sentence(4, map[int]sent.Edge{2: {Head: 0, Deprel: "root"}})

	out := generate(t, one(a, b), withMode(Intersection))
	require.Len(t, out.Sentences, 1)
	rec := out.Sentences[0]

	r := rowOf(t, rec, 4)
	assert.Equal(t, 0, r.Head)
	assert.Equal(t, PlaceholderDeprel, r.Deprel)
	assert.True(t, r.Tags.Has(TagConflict))
	assert.Contains(t, rec.Notes, "dep=4: only in A (intersection)")

	r = rowOf(t, rec, 2)
	assert.Equal(t, 0, r.Head)
	assert.Equal(t, "root", r.Deprel)
	assert.Equal(t, Tags(0), r.Tags)
}

func TestIntersectionHeadConflict(t *testing.T) {
	a := sentence(3, map[int]sent.Edge{3: {Head: 1, Deprel: "obj"}})
	b := sentence(3, map[int]sent.Edge{3: {Head: 2, Deprel: "obj"}})

	rec := generate(t, one(a, b), withMode(Intersection)).Sentences[0]

	r := rowOf(t, rec, 3)
	assert.Equal(t, 0, r.Head)
	assert.True(t, r.Tags.Has(TagConflict))
	assert.Contains(t, rec.Notes, "dep=3: head-conflict (intersection) A=1 B=2")
}

func TestStrictAgreeLabelConflict(t *testing.T) {
	a := sentence(5, map[int]sent.Edge{5: {Head: 1, Deprel: "nsubj"}})
	b := sentence(5, map[int]sent.Edge{5: {Head: 1, Deprel: "subj"}})

	rec := generate(t, one(a, b), withMode(StrictAgree)).Sentences[0]

	r := rowOf(t, rec, 5)
	assert.Equal(t, 0, r.Head)
	assert.Equal(t, PlaceholderDeprel, r.Deprel)
	assert.True(t, r.Tags.Has(TagConflict))
	assert.False(t, r.Tags.Has(TagLabelDiff))
	assert.Contains(t, rec.Notes, "dep=5: label-conflict (strict) A=nsubj B=subj")
}

func TestStrictAgree(t *testing.T) {
	a := sentence(3, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}, 2: {Head: 0, Deprel: "root"}, 3: {Head: 2, Deprel: "obj"}})
	b := sentence(3, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}, 2: {Head: 0, Deprel: "root"}})

	rec := generate(t, one(a, b), withMode(StrictAgree)).Sentences[0]

	assert.Equal(t, 2, rowOf(t, rec, 1).Head)
	assert.Equal(t, "nsubj", rowOf(t, rec, 1).Deprel)
	assert.Equal(t, 0, rowOf(t, rec, 3).Head)
	assert.Equal(t, []string{"dep=3: only in A (strict)"}, rec.Notes)
}

func TestLabelTieBreak(t *testing.T) {
	a := sentence(6, map[int]sent.Edge{6: {Head: 3, Deprel: "advmod"}})
	b := sentence(6, map[int]sent.Edge{6: {Head: 3, Deprel: "amod"}})

	tests := []struct {
		mode   Mode
		label  Side
		deprel string
		note   string
	}{
		{UnionPreferA, SideA, "advmod", "dep=6: label-diff (A chosen) A=advmod B=amod"},
		{UnionPreferA, SideB, "amod", "dep=6: label-diff (B chosen) A=advmod B=amod"},
		// the label side names the annotator, the mode does not swap it
		{UnionPreferB, SideA, "advmod", "dep=6: label-diff (A chosen) A=advmod B=amod"},
		{UnionPreferB, SideB, "amod", "dep=6: label-diff (B chosen) A=advmod B=amod"},
		{Intersection, SideA, "advmod", "dep=6: label-diff (A chosen) A=advmod B=amod"},
		{Intersection, SideB, "amod", "dep=6: label-diff (B chosen) A=advmod B=amod"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.label.String(), func(t *testing.T) {
			opts := withMode(tt.mode)
			opts.LabelMode = tt.label
			rec := generate(t, one(a, b), opts).Sentences[0]

			r := rowOf(t, rec, 6)
			assert.Equal(t, 3, r.Head)
			assert.Equal(t, tt.deprel, r.Deprel)
			assert.True(t, r.Tags.Has(TagLabelDiff))
			assert.False(t, r.Tags.Has(TagConflict))
			assert.False(t, r.Tags.Has(TagHeadConflict))
			assert.Contains(t, rec.Notes, tt.note)
		})
	}
}

func TestUnionHeadConflict(t *testing.T) {
	a := sentence(3, map[int]sent.Edge{2: {Head: 1, Deprel: "x"}})
	b := sentence(3, map[int]sent.Edge{2: {Head: 3, Deprel: "y"}})

	tests := []struct {
		mode   Mode
		head   int
		deprel string
		note   string
	}{
		{UnionPreferA, 1, "x", "dep=2: head-conflict (A chosen) A=1 B=3"},
		{UnionPreferB, 3, "y", "dep=2: head-conflict (B chosen) A=1 B=3"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			rec := generate(t, one(a, b), withMode(tt.mode)).Sentences[0]
			r := rowOf(t, rec, 2)
			assert.Equal(t, tt.head, r.Head)
			assert.Equal(t, tt.deprel, r.Deprel)
			assert.True(t, r.Tags.Has(TagHeadConflict))
			assert.Contains(t, rec.Notes, tt.note)
		})
	}
}

func TestUnionOneSided(t *testing.T) {
	a := sentence(2, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}})
	b := sentence(2, map[int]sent.Edge{2: {Head: 0, Deprel: "root"}})

	rec := generate(t, one(a, b), withMode(UnionPreferB)).Sentences[0]

	assert.Equal(t, 2, rowOf(t, rec, 1).Head)
	assert.Equal(t, 0, rowOf(t, rec, 2).Head)
	assert.Equal(t, "root", rowOf(t, rec, 2).Deprel)
	assert.Empty(t, rec.Notes)
}

func TestPreferModes(t *testing.T) {
	a := sentence(3, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}, 3: {Head: 2, Deprel: "obj"}})
	b := sentence(3, map[int]sent.Edge{1: {Head: 3, Deprel: "amod"}, 2: {Head: 0, Deprel: "root"}})

	rec := generate(t, one(a, b), withMode(PreferA)).Sentences[0]
	assert.Equal(t, sent.Edge{Head: 2, Deprel: "nsubj"}, sent.Edge{Head: rowOf(t, rec, 1).Head, Deprel: rowOf(t, rec, 1).Deprel})
	assert.Equal(t, "root", rowOf(t, rec, 2).Deprel)
	assert.Equal(t, Tags(0), rowOf(t, rec, 1).Tags)
	assert.Empty(t, rec.Notes)

	rec = generate(t, one(a, b), withMode(PreferB)).Sentences[0]
	assert.Equal(t, 3, rowOf(t, rec, 1).Head)
	assert.Equal(t, "amod", rowOf(t, rec, 1).Deprel)
	assert.Equal(t, "obj", rowOf(t, rec, 3).Deprel)
}

func TestMissingInBoth(t *testing.T) {
	a := sentence(1, nil)
	b := sentence(1, nil)

	for _, m := range []Mode{PreferA, PreferB, UnionPreferA, UnionPreferB, Intersection, StrictAgree} {
		rec := generate(t, one(a, b), withMode(m)).Sentences[0]
		r := rowOf(t, rec, 1)
		assert.Equal(t, 0, r.Head, m.String())
		assert.Equal(t, PlaceholderDeprel, r.Deprel, m.String())
		assert.True(t, r.Tags.Has(TagConflict), m.String())
		assert.Equal(t, []string{"dep=1: missing in both"}, rec.Notes, m.String())
	}
}

func TestOrphanHead(t *testing.T) {
	a := sentence(2, map[int]sent.Edge{1: {Head: 0, Deprel: "root"}, 2: {Head: 9, Deprel: "obj"}})
	b := sentence(2, map[int]sent.Edge{1: {Head: 0, Deprel: "root"}, 2: {Head: 9, Deprel: "obj"}})

	opts := withMode(UnionPreferA)
	rec := generate(t, one(a, b), opts).Sentences[0]

	r := rowOf(t, rec, 2)
	assert.Equal(t, 0, r.Head)
	assert.Equal(t, PlaceholderDeprel, r.Deprel)
	assert.True(t, r.Tags.Has(TagOrphanHead))
	assert.False(t, r.Tags.Has(TagConflict))
	assert.Equal(t, []string{"tok=2: orphan head=9 (-> 0)"}, rec.Notes)

	opts.FixOrphanHeads = false
	rec = generate(t, one(a, b), opts).Sentences[0]

	r = rowOf(t, rec, 2)
	assert.Equal(t, 9, r.Head)
	assert.Equal(t, "obj", r.Deprel)
	assert.Equal(t, Tags(0), r.Tags)
	assert.Empty(t, rec.Notes)
}

func TestTokenResolution(t *testing.T) {
	a := sentence(2, nil)
	b := sentence(3, nil)
	b.Tokens[2] = sent.Token{Id: 2, Form: "W2", Upos: "NOUN", Xpos: "NN"}

	opts := withMode(PreferA)
	rec := generate(t, one(a, b), opts).Sentences[0]

	require.Len(t, rec.Rows, 3)
	assert.Equal(t, "w2", rowOf(t, rec, 2).Token.Form)
	assert.True(t, rowOf(t, rec, 2).Tags.Has(TagTokMismatch))
	assert.False(t, rowOf(t, rec, 1).Tags.Has(TagTokMismatch))
	assert.Contains(t, rec.Notes, "tok=2: mismatch A=(w2,X,_) B=(W2,NOUN,NN)")

	// only B has token 3
	assert.Equal(t, "w3", rowOf(t, rec, 3).Token.Form)
	assert.False(t, rowOf(t, rec, 3).Tags.Has(TagTokMismatch))

	opts.TokenMode = SideB
	rec = generate(t, one(a, b), opts).Sentences[0]
	assert.Equal(t, "W2", rowOf(t, rec, 2).Token.Form)
	assert.Equal(t, "NOUN", rowOf(t, rec, 2).Token.Upos)
	assert.Equal(t, "w1 W2 w3", rec.Text)
}

func TestSentCount(t *testing.T) {
	a := []sent.Sentence{sentence(1, nil), sentence(1, nil), sentence(1, nil)}
	b := []sent.Sentence{sentence(1, nil)}

	opts := withMode(PreferA)
	out := generate(t, pair(a, b), opts)
	assert.Len(t, out.Sentences, 3)
	assert.Equal(t, 2, out.Sentences[2].Index)

	opts.SentCountMode = CountMin
	out = generate(t, pair(a, b), opts)
	assert.Len(t, out.Sentences, 1)
}

func TestEmptySentenceSkipped(t *testing.T) {
	a := []sent.Sentence{sentence(1, nil), {}, sentence(2, nil)}
	b := []sent.Sentence{sentence(1, nil)}

	out := generate(t, pair(a, b), withMode(PreferA))
	require.Len(t, out.Sentences, 2)
	assert.Equal(t, 0, out.Sentences[0].Index)
	assert.Equal(t, 2, out.Sentences[1].Index)
}

func TestSelectionErrors(t *testing.T) {
	doc := one(sentence(1, nil), sentence(1, nil))

	tests := []struct {
		name  string
		a, b  string
		field string
		err   error
	}{
		{"none", "", "", "a,b", ErrNoAnnotator},
		{"no a", "", "ben", "a", ErrNoAnnotator},
		{"no b", "anna", "", "b", ErrNoAnnotator},
		{"unknown a", "zed", "ben", "a", ErrUnknownAnnotator},
		{"unknown b", "anna", "zed", "b", ErrUnknownAnnotator},
		{"same", "anna", "anna", "a,b", ErrSameAnnotator},
		{"same by source", "anna", "a.conllu", "a,b", ErrSameAnnotator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Generate(doc, tt.a, tt.b, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, IsSelection(err))
			assert.Empty(t, out.Sentences)

			var se *SelectionError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	doc := one(sentence(1, nil), sentence(1, nil))

	opts := DefaultOptions()
	opts.Mode = Mode(42)
	_, err := Generate(doc, "anna", "ben", opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts = DefaultOptions()
	opts.LabelMode = Side(7)
	_, err = Generate(doc, "anna", "ben", opts)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	var se *SelectionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "label_mode", se.Field)
}

func TestParseEnums(t *testing.T) {
	for _, name := range Modes() {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := ParseMode("union")
	assert.ErrorIs(t, err, ErrInvalidOptions)

	s, err := ParseSide("preferB")
	require.NoError(t, err)
	assert.Equal(t, SideB, s)

	_, err = ParseSentCountMode("all")
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestTagsMisc(t *testing.T) {
	assert.Equal(t, "_", Tags(0).Misc())

	ts := Tags(0).With(TagOrphanHead).With(TagTokMismatch).With(TagLabelDiff)
	assert.Equal(t, "Gold=tokmismatch|Gold=labeldiff|Gold=orphanhead", ts.Misc())
}

func TestText(t *testing.T) {
	a := sentence(2, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}, 2: {Head: 0, Deprel: "root"}})
	b := sentence(2, map[int]sent.Edge{1: {Head: 2, Deprel: "subj"}, 2: {Head: 0, Deprel: "root"}})

	got, err := Text(one(a, b), "anna", "ben", DefaultOptions())
	require.NoError(t, err)

	want := strings.Join([]string{
		"# sent_id = 1",
		"# text = w1 w2",
		"# gold_from = anna | ben",
		"# gold_mode = unionPreferA; label=preferA; tokens=preferA; sentCount=max",
		"1\tw1\t_\tX\t_\t_\t2\tnsubj\t_\tGold=labeldiff",
		"2\tw2\t_\tX\t_\t_\t0\troot\t_\t_",
		"# gold_conflicts = 1",
		"# gold_note = dep=1: label-diff (A chosen) A=nsubj B=subj",
		"",
	}, "\n") + "\n"
	assert.Equal(t, want, got)
}

func TestTextWithoutCommentsAndMisc(t *testing.T) {
	a := sentence(2, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}, 2: {Head: 0, Deprel: "root"}})
	b := sentence(2, map[int]sent.Edge{1: {Head: 2, Deprel: "subj"}, 2: {Head: 0, Deprel: "root"}})

	opts := DefaultOptions()
	opts.IncludeComments = false
	opts.MarkMisc = false

	out := generate(t, one(a, b), opts)

	// the conflict is recorded even when it is not written
	require.Len(t, out.Sentences[0].Notes, 1)
	assert.True(t, out.Sentences[0].Rows[0].Tags.Has(TagLabelDiff))

	want := "1\tw1\t_\tX\t_\t_\t2\tnsubj\t_\t_\n" +
		"2\tw2\t_\tX\t_\t_\t0\troot\t_\t_\n" +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestNotesCap(t *testing.T) {
	n := MaxNotes + 5
	a := sentence(n, nil)
	b := sentence(n, nil)

	out := generate(t, one(a, b), withMode(StrictAgree))
	require.Len(t, out.Sentences[0].Notes, n)

	text := out.String()
	assert.Contains(t, text, fmt.Sprintf("# gold_conflicts = %d\n", n))
	assert.Equal(t, MaxNotes+1, strings.Count(text, "# gold_note = "))
	assert.Contains(t, text, "# gold_note = ... (5 more)\n")
}

func TestWriteToCount(t *testing.T) {
	out := generate(t, one(sentence(2, nil), sentence(2, nil)), withMode(PreferA))

	var sb strings.Builder
	n, err := out.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, int64(sb.Len()), n)
}

func TestSummary(t *testing.T) {
	a := sentence(3, map[int]sent.Edge{1: {Head: 2, Deprel: "nsubj"}, 2: {Head: 0, Deprel: "root"}, 3: {Head: 9, Deprel: "obj"}})
	b := sentence(3, map[int]sent.Edge{1: {Head: 2, Deprel: "subj"}, 2: {Head: 1, Deprel: "root"}})
	b.Tokens[3] = sent.Token{Id: 3, Form: "other", Upos: "X", Xpos: "_"}

	s := generate(t, one(a, b), withMode(UnionPreferA)).Summary()

	assert.Equal(t, 1, s.Sentences)
	assert.Equal(t, 3, s.Tokens)
	assert.Equal(t, 1, s.LabelDiffs)
	assert.Equal(t, 1, s.HeadConflicts)
	assert.Equal(t, 1, s.OrphanHeads)
	assert.Equal(t, 1, s.TokMismatches)
	assert.Equal(t, 0, s.Conflicts)
	assert.Equal(t, 4, s.Notes)
}
