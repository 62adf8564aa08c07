package mcptools

import "github.com/revelaction/goldtree/gold"

// ListDocumentsInput is the input for the list_documents MCP tool.
type ListDocumentsInput struct{}

// DocumentInfo describes one loaded document.
type DocumentInfo struct {
	Id         int      `json:"id"`
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Annotators []string `json:"annotators"`
	Sentences  int      `json:"sentences"`
}

// ListDocumentsOutput is the result of the list_documents MCP tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
}

// CompareSentenceInput is the input for the compare_sentence MCP tool.
type CompareSentenceInput struct {
	DocId         int  `json:"docId" jsonschema:"document id, as returned by list_documents"`
	Sentence      int  `json:"sentence" jsonschema:"sentence number, starting at 1"`
	OnlyDiffEdges bool `json:"onlyDiffEdges,omitempty" jsonschema:"hide the edges all annotators agree on"`
	ShowPos       bool `json:"showPos,omitempty" jsonschema:"show the upos and xpos of every token"`
}

// CompareSentenceOutput is the result of the compare_sentence MCP tool.
type CompareSentenceOutput struct {
	Tree           []string `json:"tree"`
	Meta           string   `json:"meta"`
	UnionEdges     int      `json:"unionEdges"`
	MissingEdges   int      `json:"missingEdges"`
	LabelDiffEdges int      `json:"labelDiffEdges"`
	AnyTextDiff    bool     `json:"anyTextDiff"`
}

// GenerateGoldInput is the input for the generate_gold MCP tool. Empty
// options keep the server defaults.
type GenerateGoldInput struct {
	DocId           int    `json:"docId" jsonschema:"document id, as returned by list_documents"`
	A               string `json:"a" jsonschema:"annotator A, by name or source file"`
	B               string `json:"b" jsonschema:"annotator B, by name or source file"`
	Mode            string `json:"mode,omitempty" jsonschema:"edge policy: preferA, preferB, unionPreferA, unionPreferB, intersection, strictAgree"`
	LabelMode       string `json:"labelMode,omitempty" jsonschema:"label tie-break: preferA or preferB"`
	TokenMode       string `json:"tokenMode,omitempty" jsonschema:"token attributes source: preferA or preferB"`
	SentCount       string `json:"sentCount,omitempty" jsonschema:"number of sentences: max or min"`
	IncludeComments *bool  `json:"includeComments,omitempty" jsonschema:"write header comments and conflict notes"`
	MarkMisc        *bool  `json:"markMisc,omitempty" jsonschema:"write Gold=* tags in the MISC column"`
	FixOrphanHeads  *bool  `json:"fixOrphanHeads,omitempty" jsonschema:"attach heads outside the sentence to the root"`
}

// GenerateGoldOutput is the result of the generate_gold MCP tool.
type GenerateGoldOutput struct {
	A       string       `json:"a"`
	B       string       `json:"b"`
	Options string       `json:"options"`
	Summary gold.Summary `json:"summary"`
	Text    string       `json:"text"`
}
