package gold

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/revelaction/goldtree/conllu"
)

// WriteTo writes the merge as CoNLL-U. Header comments and notes are written
// when IncludeComments is set, the Gold=* MISC tags when MarkMisc is set.
func (o Output) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: bufio.NewWriter(w)}

	for _, rec := range o.Sentences {
		o.writeSentence(cw, rec)
	}

	if cw.err == nil {
		cw.err = cw.w.Flush()
	}

	return cw.n, cw.err
}

func (o Output) String() string {
	var sb strings.Builder
	_, _ = o.WriteTo(&sb)
	return sb.String()
}

func (o Output) writeSentence(cw *countWriter, rec SentenceRecord) {
	if o.Options.IncludeComments {
		cw.line(conllu.Comment("sent_id", strconv.Itoa(rec.Index+1)))
		cw.line(conllu.Comment("text", rec.Text))
		cw.line(conllu.Comment("gold_from", o.A+" | "+o.B))
		cw.line(conllu.Comment("gold_mode", o.Options.String()))
	}

	for _, row := range rec.Rows {
		misc := "_"
		if o.Options.MarkMisc {
			misc = row.Tags.Misc()
		}

		cw.line(conllu.Row{
			Id:     row.Token.Id,
			Form:   row.Token.Form,
			Upos:   row.Token.Upos,
			Xpos:   row.Token.Xpos,
			Head:   row.Head,
			Deprel: row.Deprel,
			Misc:   misc,
		}.String())
	}

	if o.Options.IncludeComments && len(rec.Notes) > 0 {
		cw.line(conllu.Comment("gold_conflicts", strconv.Itoa(len(rec.Notes))))
		for i, n := range rec.Notes {
			if i == MaxNotes {
				break
			}
			cw.line(conllu.Comment("gold_note", n))
		}
		if len(rec.Notes) > MaxNotes {
			cw.line(conllu.Comment("gold_note", fmt.Sprintf("... (%d more)", len(rec.Notes)-MaxNotes)))
		}
	}

	cw.line("")
}

type countWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (cw *countWriter) line(s string) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.WriteString(s + "\n")
	cw.n += int64(n)
	cw.err = err
}

// Summary counts the conflicts of a merge.
type Summary struct {
	Sentences     int `json:"sentences"`
	Tokens        int `json:"tokens"`
	Notes         int `json:"notes"`
	Conflicts     int `json:"conflicts"`
	LabelDiffs    int `json:"label_diffs"`
	HeadConflicts int `json:"head_conflicts"`
	OrphanHeads   int `json:"orphan_heads"`
	TokMismatches int `json:"tok_mismatches"`
	TokMissing    int `json:"tok_missing"`
}

func (o Output) Summary() Summary {
	s := Summary{Sentences: len(o.Sentences)}
	for _, rec := range o.Sentences {
		s.Notes += len(rec.Notes)
		for _, row := range rec.Rows {
			s.Tokens++
			for _, t := range row.Tags.List() {
				switch t {
				case TagConflict:
					s.Conflicts++
				case TagLabelDiff:
					s.LabelDiffs++
				case TagHeadConflict:
					s.HeadConflicts++
				case TagOrphanHead:
					s.OrphanHeads++
				case TagTokMismatch:
					s.TokMismatches++
				case TagTokMissing:
					s.TokMissing++
				}
			}
		}
	}
	return s
}
