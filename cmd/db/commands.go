package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/localdb/localdb/lib/db"
)

// parseData decodes a JSON object argument into a record payload.
func parseData(arg string) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(arg), &data); err != nil {
		return nil, fmt.Errorf("data must be a JSON object: %w", err)
	}
	return data, nil
}

// printRecord pretty-prints a record as JSON.
func printRecord(rec db.Record) {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", rec)
		return
	}
	fmt.Println(string(raw))
}

var (
	putCmd = &cobra.Command{
		Use:   "put [id] [json]",
		Short: "Inserts or overwrites the document for an id",
		Long:  "Inserts or overwrites the document for an id. With a single argument, a fresh UUID is generated as the id.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.NewString()
			raw := args[0]
			if len(args) == 2 {
				id = args[0]
				raw = args[1]
			}
			data, err := parseData(raw)
			if err != nil {
				return err
			}
			rec, err := docStore.Put(context.Background(), id, data).Get()
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Reads the document for an id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := docStore.Get(context.Background(), args[0]).Get()
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [id] [json]",
		Short: "Overwrites an existing document, failing if the id is absent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseData(args[1])
			if err != nil {
				return err
			}
			rec, err := docStore.Update(context.Background(), args[0], data).Get()
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [id]",
		Short: "Deletes the document for an id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := docStore.Delete(context.Background(), args[0]).Get(); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all documents in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := docStore.GetAll(context.Background()).Get()
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(records))
			for id := range records {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				printRecord(records[id])
			}
			fmt.Printf("%d record(s)\n", len(records))
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all documents, keeping the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := docStore.Clear(context.Background()).Get(); err != nil {
				return err
			}
			fmt.Println("cleared successfully")
			return nil
		},
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Destroys the entire store including its backing medium",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := docStore.Reset(context.Background()).Get(); err != nil {
				return err
			}
			fmt.Println("reset successfully")
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints metadata about the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := docStore.Info(context.Background()).Get()
			if err != nil {
				return err
			}
			fmt.Printf("implementation: %s\n", info.Implementation)
			fmt.Printf("location:       %s\n", info.Location)
			fmt.Printf("entries:        %d\n", info.Entries)
			fmt.Printf("size:           %d bytes\n", info.SizeBytes)

			if showMetrics, _ := cmd.Flags().GetBool("metrics"); showMetrics {
				fmt.Println()
				metrics.WritePrometheus(cmd.OutOrStdout(), false)
			}
			return nil
		},
	}
)

func init() {
	infoCmd.Flags().Bool("metrics", false, "also print process metrics in Prometheus format")
}
