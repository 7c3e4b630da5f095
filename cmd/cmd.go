// Package cmd provides the ecs-formatter command line
package cmd

import (
	"github.com/relex/gotils/config"
)

func init() {
	config.AddParentCmdWithArgs("", "ecs-formatter reshapes normalized log events into Elastic Common Schema documents", &rootCmd, rootCmd.preRun, rootCmd.postRun)
	config.AddCmdWithArgs("run ...", "Read JSON log records from stdin and write ECS documents to stdout", &runCmd, runCmd.run)
}

// Execute parses the command line and runs the specified command
func Execute() {
	// trigger init

	config.Execute()
}
