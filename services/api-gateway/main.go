package main

import (
	"github.com/G4ertner/kRPC-docs-MCP/pkg/app"
	"github.com/G4ertner/kRPC-docs-MCP/services/api-gateway/internal"
)

func main() {
	app.RunService("api-gateway", &internal.Service{})
}
