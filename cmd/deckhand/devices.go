package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhandapp/deckhand/internal/device"
)

func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List attached control surfaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices := detectDevices()
			out := cmd.OutOrStdout()
			if len(devices) == 0 {
				fmt.Fprintln(out, "No devices found.")
				return nil
			}
			for _, dev := range devices {
				cols, rows := dev.KeyLayout()
				fmt.Fprintf(out, "%s  serial=%s  keys=%d (%dx%d)\n", dev.ModelName(), dev.Serial(), dev.KeyCount(), cols, rows)
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

// detectDevices enumerates control surfaces. Hardware discovery is not
// wired up yet, so the emulator is always reported.
// TODO: enumerate HID decks once the hardware adapter lands.
func detectDevices() []device.Device {
	return []device.Device{device.NewEmulator(5, 3)}
}
