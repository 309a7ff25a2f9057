package commands

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ip-tracker/internal/query"
	"ip-tracker/internal/tracker"
)

// watchCmd：每行一次提交，查询并发进行，只打印仍为最新提交的结果
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Read queries from stdin and print the tracked location as it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openLookup()
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			tr := tracker.New(s.Lookup, tracker.Options{
				Classify: classifier(),
				Timeout:  cfg.LookupTimeout,
				OnChange: func(snap tracker.Snapshot) {
					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(out, "#%d %s %s\n", snap.Token, snap.Query.Kind, snap.Query.Value)
					printRecord(out, snap.Record)
				},
			})
			if err := tr.Init(cmd.Context(), cfg.DefaultQuery); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "no data: %v\n", err)
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				tr.Go(cmd.Context(), tr.Submit(query.ToASCII(line)))
			}
			tr.Wait()
			return sc.Err()
		},
	}
}
