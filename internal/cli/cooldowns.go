package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var clearCooldowns bool

var cooldownsCmd = &cobra.Command{
	Use:   "cooldowns",
	Short: "Show or clear active cooldown records",
	RunE:  runCooldowns,
}

func init() {
	cooldownsCmd.Flags().BoolVar(&clearCooldowns, "clear", false, "remove all cooldown records")
}

func runCooldowns(cmd *cobra.Command, args []string) error {
	_, db, cooldowns, _, err := openAll()
	if err != nil {
		return err
	}
	defer db.Close()

	if clearCooldowns {
		if err := cooldowns.ClearCooldowns(); err != nil {
			return err
		}
		fmt.Println("cooldowns cleared")
		return nil
	}

	now := time.Now()
	count, err := cooldowns.CountActive(now)
	if err != nil {
		return err
	}

	fmt.Printf("active cooldowns: %d (window: %s)\n", count, cooldowns.Window)
	if oldest, ok, err := cooldowns.OldestActive(now); err == nil && ok {
		next := time.UnixMilli(oldest).Add(cooldowns.Window)
		fmt.Printf("next expiry: %s\n", next.Format(time.RFC3339))
	}
	return nil
}
