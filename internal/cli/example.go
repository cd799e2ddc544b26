package cli

import (
	"fmt"

	"github.com/practicecomp/compensation-engine/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) newExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example practice configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "example_practice.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			if err := config.NewInputParser().WriteExampleConfiguration(filename); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Example configuration written to %s\n", filename)
			return nil
		},
	}
}
