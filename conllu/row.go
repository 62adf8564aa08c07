package conllu

import (
	"strconv"
	"strings"
)

// Row is a single output line of a CoNLL-U file.
type Row struct {
	Id     int
	Form   string
	Lemma  string
	Upos   string
	Xpos   string
	Feats  string
	Head   int
	Deprel string
	Deps   string
	Misc   string
}

// String renders the ten columns, "_" for the empty ones.
func (r Row) String() string {
	fields := []string{
		strconv.Itoa(r.Id),
		r.Form,
		r.Lemma,
		r.Upos,
		r.Xpos,
		r.Feats,
		strconv.Itoa(r.Head),
		r.Deprel,
		r.Deps,
		r.Misc,
	}
	for i, f := range fields {
		if f == "" {
			fields[i] = "_"
		}
	}

	return strings.Join(fields, FieldSeparator)
}

// Comment renders a "# key = value" comment line.
func Comment(key, value string) string {
	return CommentPrefix + " " + key + " = " + value
}
