// Package conllu reads and writes the tab separated CoNLL-U dependency format.
//
// The reader is permissive: lines it does not understand (short lines,
// multiword tokens, empty nodes, non numeric ids) are dropped without error,
// so that partially well formed corpora can still be compared.
package conllu

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	sent "github.com/revelaction/goldtree/sentence"
)

const (
	FieldSeparator = "\t"
	CommentPrefix  = "#"

	// minFields is the minimum of columns of a token line: up to DEPREL.
	minFields = 8
)

// column positions
const (
	colId = iota
	colForm
	colLemma
	colUpos
	colXpos
	colFeats
	colHead
	colDeprel
)

// Parse parses a CoNLL-U text into its sentences.
func Parse(text string) []sent.Sentence {
	p := newParser()
	for _, line := range strings.Split(text, "\n") {
		p.line(strings.TrimSuffix(line, "\r"))
	}
	return p.finish()
}

// Read parses the CoNLL-U content of r. It only fails on I/O errors.
func Read(r io.Reader) ([]sent.Sentence, error) {
	p := newParser()

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			p.line(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return p.finish(), nil
}

type parser struct {
	sentences []sent.Sentence
	tokens    map[int]sent.Token
	edges     map[int]sent.Edge
}

func newParser() *parser {
	p := &parser{}
	p.reset()
	return p
}

func (p *parser) reset() {
	p.tokens = map[int]sent.Token{}
	p.edges = map[int]sent.Edge{}
}

// flush appends the pending sentence if it has anything in it
func (p *parser) flush() {
	s := sent.Sentence{Tokens: p.tokens, Edges: p.edges}
	if s.IsEmpty() {
		return
	}

	p.sentences = append(p.sentences, s)
	p.reset()
}

func (p *parser) line(line string) {
	if strings.TrimSpace(line) == "" {
		p.flush()
		return
	}

	if strings.HasPrefix(line, CommentPrefix) {
		return
	}

	cols := strings.Split(line, FieldSeparator)
	if len(cols) < minFields {
		return
	}

	// multiword tokens (1-2) and empty nodes (1.1)
	if strings.ContainsAny(cols[colId], "-.") {
		return
	}

	id, ok := parseId(cols[colId])
	if !ok {
		return
	}

	p.tokens[id] = sent.Token{
		Id:   id,
		Form: field(cols, colForm),
		Upos: field(cols, colUpos),
		Xpos: field(cols, colXpos),
	}

	if head, ok := parseId(field(cols, colHead)); ok {
		p.edges[id] = sent.Edge{Head: head, Deprel: field(cols, colDeprel)}
	}
}

func (p *parser) finish() []sent.Sentence {
	p.flush()
	return p.sentences
}

// parseId accepts only plain non negative integers: no sign, no spaces.
func parseId(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}

	return n, true
}

func field(cols []string, i int) string {
	if i >= len(cols) {
		return "_"
	}
	return cols[i]
}
