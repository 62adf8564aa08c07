package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGoldMCPServer creates an MCP server with the goldtree tools registered:
// list_documents, compare_sentence and generate_gold.
func NewGoldMCPServer(svc *GoldService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "goldtree",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the loaded documents with their annotators and number of sentences.",
	}, svc.ListDocuments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_sentence",
		Description: "Compare the dependency annotations of all annotators for one sentence. Returns the union tree with agreement markers and the disagreement counters.",
	}, svc.CompareSentence)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_gold",
		Description: "Merge the annotations of two annotators of a document into one gold CoNLL-U annotation, using a conflict resolution policy. Returns the CoNLL-U text and the conflict counts.",
	}, svc.GenerateGold)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
