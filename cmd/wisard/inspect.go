package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurlang/wisard/store"
	"github.com/neurlang/wisard/wisard"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the labels of a model or the memorized addresses of one label",
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		e, err := store.Load(cfg.Store.Dir, wisard.WithLogger(log))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if label == "" {
			fmt.Fprintf(out, "tables=%d block_size=%d encoder=%s vocabulary=%d\n",
				e.Tables(), e.BlockSize(), e.Encoder(), e.VocabularySize())
			for _, l := range e.Labels() {
				n, _ := e.TimesTrained(l)
				fmt.Fprintf(out, "%s\t%d\n", l, n)
			}
			return nil
		}

		image, err := e.MentalAddresses(label)
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(image)
		}
		for i, ram := range image {
			fmt.Fprintf(out, "table %d:", i)
			for _, entry := range ram {
				fmt.Fprintf(out, " %d×%d", entry.Address, entry.Count)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("label", "", "label to show the mental image of")
	inspectCmd.Flags().BoolP("json", "j", false, "output the mental image as JSON")
}
