package main

import (
	"fmt"

	"lakeintake/pkg/types"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
)

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Check the SmartSuite configuration without starting the server",
	Action: func(cCtx *cli.Context) error {
		c := new(types.Config)
		if err := envconfig.Process("", c); err != nil {
			return fmt.Errorf("process environment config: %w", err)
		}

		missing := missingConfig(c)
		if len(missing) == 0 {
			fmt.Println("configuration complete")
			return nil
		}

		fmt.Println("missing configuration:")
		for _, name := range missing {
			fmt.Printf("  %s\n", name)
		}
		return cli.Exit("", 1)
	},
}
