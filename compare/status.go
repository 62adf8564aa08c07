package compare

import (
	"fmt"
	"strings"
)

// Kind classifies a union edge.
type Kind int

const (
	// Same: present in all annotators with identical label
	Same Kind = iota
	// LabelDiff: present in all annotators, labels differ
	LabelDiff
	// Partial: missing for at least one annotator
	Partial
)

func (k Kind) String() string {
	switch k {
	case Same:
		return "same"
	case LabelDiff:
		return "labelDiff"
	case Partial:
		return "partial"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AuthorLabel is the label an annotator gives to a union edge. Has is false
// when the annotator does not have the edge.
type AuthorLabel struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Has   bool   `json:"has"`
}

// EdgeStatus is the classification of one union edge.
type EdgeStatus struct {
	Kind    Kind          `json:"kind"`
	Present int           `json:"present"`
	Total   int           `json:"total"`
	Labels  []AuthorLabel `json:"labels"`
}

// Status classifies the union edge e against every annotator.
func (r Report) Status(e UnionEdge) EdgeStatus {
	st := EdgeStatus{Total: len(r.Sentences)}
	distinct := map[string]bool{}

	for i, s := range r.Sentences {
		al := AuthorLabel{Name: r.name(i)}
		if edge, ok := s.Edge(e.Dep); ok && edge.Head == e.Head {
			st.Present++
			al.Has = true
			al.Label = edge.Deprel
			distinct[edge.Deprel] = true
		}
		st.Labels = append(st.Labels, al)
	}

	switch {
	case st.Present != st.Total:
		st.Kind = Partial
	case len(distinct) > 1:
		st.Kind = LabelDiff
	default:
		st.Kind = Same
	}

	return st
}

func (r Report) name(i int) string {
	if i < len(r.Names) {
		return r.Names[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

// Text describes the status the way the tree shows it:
//
//	same:      nsubj
//	labelDiff: anna:nsubj | ben:subj
//	partial:   1/2  + anna:obj  − ben
func (s EdgeStatus) Text() string {
	switch s.Kind {
	case Same:
		for _, l := range s.Labels {
			if l.Has {
				return l.Label
			}
		}
		return ""

	case LabelDiff:
		parts := make([]string, 0, len(s.Labels))
		for _, l := range s.Labels {
			parts = append(parts, l.Name+":"+l.Label)
		}
		return strings.Join(parts, " | ")
	}

	var present, missing []string
	for _, l := range s.Labels {
		if l.Has {
			present = append(present, l.Name+":"+l.Label)
		} else {
			missing = append(missing, l.Name)
		}
	}

	detail := fmt.Sprintf("%d/%d  ", s.Present, s.Total)
	if len(present) > 0 {
		detail += "+ " + strings.Join(present, ", ")
	}
	if len(missing) > 0 {
		detail += "  − " + strings.Join(missing, ", ")
	}

	return strings.TrimSpace(detail)
}
