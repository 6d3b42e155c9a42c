package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ConfigCommand prints the effective community configuration.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as YAML",
		Description: `Prints the community configuration after defaults, the config file and
flag overrides have been applied. No GitHub token is needed.

Examples:
  forge-bootstrap --config community.yaml --owner alice config`,
		Action: configAction,
	}
}

func configAction(c *cli.Context) error {
	community, err := loadCommunity(c)
	if err != nil {
		return err
	}

	data, err := community.Marshal()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	_, err = c.App.Writer.Write(data)
	return err
}
