package main

import (
	"context"
	"os"

	"github.com/graphqlintel/graphqlintel/internal/ide"
	"github.com/graphqlintel/graphqlintel/internal/lsp"
)

func runLSPStdio(ctx context.Context, host *ide.AnalysisHost) error {
	return lsp.NewServer(host).Run(ctx, os.Stdin, os.Stdout)
}
