package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vbonduro/groupr/internal/db"
	"github.com/vbonduro/groupr/internal/seed"
	"github.com/vbonduro/groupr/internal/store"
)

func newSeedCmd(a *app) *cobra.Command {
	var email, clerkID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo groups into the database",
		Long:  `Rewrites the demo groups and their objects, making the given user captain of each.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := db.Open(a.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer closeDB(database, a.logger)

			loader := seed.NewLoader(store.NewGroupStore(database), store.NewMemberStore(database), a.logger)

			bar := progressbar.NewOptions(catalogSize(),
				progressbar.OptionSetDescription("Seeding"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(50*time.Millisecond),
			)
			results, err := loader.Seed(cmd.Context(), email, clerkID, func(string, int, int) {
				_ = bar.Add(1)
			})
			_ = bar.Finish()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			for _, r := range results {
				fmt.Fprintf(out, "  -> %s: %d/%d objects\n", r.ID, r.ObjectCount, r.ExpectedObjects)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %d mock groups\n", len(results))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "captain-email", "", "Email of the captain (required)")
	cmd.Flags().StringVar(&clerkID, "captain-id", "", "Identity provider user id of the captain (required)")
	_ = cmd.MarkFlagRequired("captain-email")
	_ = cmd.MarkFlagRequired("captain-id")
	return cmd
}

// catalogSize counts every record the loader writes, captains included.
func catalogSize() int {
	n := 0
	for _, g := range seed.Catalog() {
		n += len(g.Items) + 1
	}
	return n
}
