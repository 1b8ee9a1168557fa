package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/localdb/localdb/cmd/util"
)

var (
	perfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for local stores",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix = "__test"
	perfOps       = 1000
	perfKeySpread = 100
	perfSkip      = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "ops"
	perfCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per benchmark"))
	key = "keys"
	perfCmd.Flags().Int(key, 100, util.WrapString("How many different ids to use for the tests"))
	key = "csv"
	perfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfOps = viper.GetInt("ops")
	perfKeySpread = viper.GetInt("keys")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	fmt.Println("Performance testing tool for local stores")
	fmt.Println()
	fmt.Printf("Backend: %s\n", viper.GetString("backend"))
	fmt.Printf("Operations per test: %d\n", perfOps)
	fmt.Printf("Id spread: %d\n", perfKeySpread)
	fmt.Println()

	getKey, iter := perfKeys()
	payload := map[string]interface{}{
		"name":  "perf",
		"count": float64(1),
		"tags":  []interface{}{"a", "b", "c"},
	}

	timers := make(map[string]gometrics.Timer)

	runTest := func(name string, prepare func(), op func(i int) error) {
		if perfShouldSkip(name) {
			fmt.Printf("%-12sskipped\n", name)
			return
		}
		if prepare != nil {
			prepare()
		}
		timer := gometrics.NewTimer()
		for i := 0; i < perfOps; i++ {
			start := time.Now()
			if err := op(i); err != nil {
				fmt.Printf("(%s) - operation error: %v\n", name, err)
			}
			timer.UpdateSince(start)
		}
		timers[name] = timer
		printPerfResult(name, timer)
	}

	runTest("put", nil, func(i int) error {
		_, err := docStore.Put(ctx, getKey(i), payload).Get()
		return err
	})

	runTest("get",
		func() {
			iter(func(id string) { docStore.Put(ctx, id, payload) })
		},
		func(i int) error {
			_, err := docStore.Get(ctx, getKey(i)).Get()
			return err
		})

	runTest("update",
		func() {
			iter(func(id string) { docStore.Put(ctx, id, payload) })
		},
		func(i int) error {
			_, err := docStore.Update(ctx, getKey(i), payload).Get()
			return err
		})

	runTest("delete",
		func() {
			iter(func(id string) { docStore.Put(ctx, id, payload) })
		},
		func(i int) error {
			// repopulate ids consumed by earlier iterations
			docStore.Put(ctx, getKey(i), payload)
			_, err := docStore.Delete(ctx, getKey(i)).Get()
			return err
		})

	runTest("mixed", nil, func(i int) error {
		id := getKey(i)
		switch i % 4 {
		case 0, 1:
			_, err := docStore.Put(ctx, id, payload).Get()
			return err
		case 2:
			// absence is expected in the mixed sequence
			docStore.Get(ctx, id)
			return nil
		default:
			_, err := docStore.Delete(ctx, id).Get()
			return err
		}
	})

	// cleanup the test ids
	iter(func(id string) { docStore.Delete(ctx, id) })

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writePerfResultsToCSV(csvPath, timers); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func perfShouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfKeys creates the test ids and functions to work with them
func perfKeys() (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%d", perfKeyPrefix, i)
	}

	// Function to get an id by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all ids and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printPerfResult prints the result of a benchmark test in a formatted way
func printPerfResult(test string, timer gometrics.Timer) {
	mean := timer.Mean()
	if mean == 0 {
		fmt.Printf("%-12sskipped\n", test)
		return
	}
	opsPerSec := 1.0 / (mean / 1e9)
	fmt.Printf("%-12s%.0fns/op (%s/op)\tp95 %s\t%.0f ops/sec\n",
		test, mean, time.Duration(mean), time.Duration(timer.Percentile(0.95)), opsPerSec)
}

// writePerfResultsToCSV writes benchmark results to a CSV file
func writePerfResultsToCSV(csvPath string, timers map[string]gometrics.Timer) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNsPerOp", "P95NsPerOp", "OpsPerSec",
		"Backend", "Ops", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range timers {
		mean := timer.Mean()
		opsPerSec := 0.0
		if mean > 0 {
			opsPerSec = 1.0 / (mean / 1e9)
		}

		row := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", mean),
			fmt.Sprintf("%.0f", timer.Percentile(0.95)),
			fmt.Sprintf("%.0f", opsPerSec),
			viper.GetString("backend"),
			strconv.Itoa(perfOps),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
