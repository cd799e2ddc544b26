package cli

import (
	"fmt"
	"time"

	"github.com/practicecomp/compensation-engine/internal/output"
	"github.com/practicecomp/compensation-engine/internal/snapshot"
	"github.com/spf13/cobra"
)

func (a *app) newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, compare and restore resolved projections",
	}
	cmd.AddCommand(a.newSnapshotSaveCommand(), a.newSnapshotDiffCommand(), a.newSnapshotRestoreCommand())
	return cmd
}

func (a *app) newSnapshotSaveCommand() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "save <file.json|file.yaml>",
		Short: "Project every scenario and save the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ce := a.engine(false)
			s, err := snapshot.Capture(ce, cfg)
			if err != nil {
				return err
			}
			s.SavedAt = time.Now().UTC().Truncate(time.Second)

			format := snapshot.FormatForPath(args[0])
			if verify {
				if err := snapshot.Verify(ce, s, format); err != nil {
					return err
				}
			}
			if err := snapshot.Save(args[0], s); err != nil {
				return err
			}
			a.logger.Infow("snapshot saved", "path", args[0], "format", format, "scenarios", len(s.Configuration.Scenarios))
			fmt.Fprintf(a.out, "Snapshot written to %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", true, "check the snapshot restores to identical results before writing")
	return cmd
}

func (a *app) newSnapshotDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <snapshot>",
		Short: "List changes in the current configuration since a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			current, err := snapshot.Capture(a.engine(false), cfg)
			if err != nil {
				return err
			}

			changes := snapshot.Dirty(&saved.Configuration, &current.Configuration)
			if len(changes) == 0 {
				fmt.Fprintf(a.out, "No changes since %s\n", saved.SavedAt.Format(time.RFC3339))
				return nil
			}
			fmt.Fprintf(a.out, "%d change(s) since %s:\n", len(changes), saved.SavedAt.Format(time.RFC3339))
			for _, c := range changes {
				fmt.Fprintf(a.out, "  - %s\n", c)
			}
			return nil
		},
	}
}

func (a *app) newSnapshotRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <snapshot> <config.yaml>",
		Short: "Write a snapshot's configuration back out as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			if err := output.SaveConfiguration(&saved.Configuration, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Configuration restored to %s\n", args[1])
			return nil
		},
	}
}
