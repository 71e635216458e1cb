package main

import (
	"github.com/G4ertner/kRPC-docs-MCP/pkg/app"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal"
)

func main() {
	app.RunService("snippet-indexer", &internal.Service{})
}
