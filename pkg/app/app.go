package app

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
)

type ServiceInterface interface {
	Start()
	Close()
}

func RunService(name string, service ServiceInterface) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	log.Init(log.Config{
		Level:     logrus.InfoLevel,
		Env:       env,
		Service:   name,
		LogToFile: true,
		FilePath:  "./" + name + ".log",
	})

	service.Start()
	service.Close()
}
