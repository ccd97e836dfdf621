package main

import (
	"github.com/docquery/factgraph/internal/server"
	"github.com/docquery/factgraph/internal/util"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
