package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/mcptools"
	sent "github.com/revelaction/goldtree/sentence"
)

func (a *app) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:      "mcp",
		Usage:     "serve the compare and gold tools to MCP clients on stdio",
		ArgsUsage: "[corpus...]",
		Action:    a.mcp,
	}
}

func (a *app) mcp(c *cli.Context) error {
	// stdout belongs to the protocol, no progress bar
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, false)
	if err != nil {
		return err
	}
	defer crp.Close()

	opts, err := a.cfg.GoldOptions()
	if err != nil {
		return err
	}

	lib := crp.lib
	svc := mcptools.NewGoldService(func() sent.Library { return lib }, opts, a.log)

	a.log.Info("serving MCP on stdio", "documents", len(lib))
	return mcptools.RunStdio(c.Context, mcptools.NewGoldMCPServer(svc))
}
