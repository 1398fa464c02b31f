// Package main provides a performance benchmarking tool for the callerid CLI.
// It generates synthetic address books of increasing size, then measures how long
// it takes to enable the cache (the first build) and to resolve numbers in a fresh
// process (which rebuilds the cache on launch), with and without build history.
// The first successful run of each phase is treated as cold and the rest are averaged as warm.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - callerid binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated contact files and throwaway HOME directories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run for one address book size.
type BenchmarkResult struct {
	Contacts     int
	History      string
	EnableTime   string
	LookupCold   string
	LookupWarmed string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir        string
	Timeout        time.Duration
	LookupRuns     int
	Sizes          []int
	HistoryModes   []string
	NumbersPerLook int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:        os.Args[1],
		Timeout:        2 * time.Minute,
		LookupRuns:     5,
		Sizes:          []int{1_000, 10_000, 100_000},
		HistoryModes:   []string{"none", "sqlite"},
		NumbersPerLook: 20,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the callerid binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("callerid"); err != nil {
		return fmt.Errorf("callerid binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks executes the enable and lookup phases for every size and history mode
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: sizes %v, %v timeout, lookup: %d runs\n",
		config.Sizes, config.Timeout, config.LookupRuns)

	for _, size := range config.Sizes {
		contacts := filepath.Join(config.WorkDir, fmt.Sprintf("contacts_%d.csv", size))
		if err := generateContacts(contacts, size); err != nil {
			fmt.Printf("Warning: failed to generate %d contacts: %v\n", size, err)
			continue
		}

		for _, history := range config.HistoryModes {
			results = append(results, runBenchmarkSuite(config, contacts, size, history))
		}
	}

	return results
}

// runBenchmarkSuite enables the cache in a fresh HOME and then times repeated lookups
func runBenchmarkSuite(config BenchmarkConfig, contacts string, size int, history string) BenchmarkResult {
	fmt.Printf("Benchmarking %d contacts (history: %s)\n", size, history)
	result := BenchmarkResult{Contacts: size, History: history, EnableTime: "FAILED", LookupCold: "FAILED", LookupWarmed: "FAILED"}

	home, err := os.MkdirTemp(config.WorkDir, "home-")
	if err != nil {
		fmt.Printf("  Warning: failed to create HOME: %v\n", err)
		return result
	}
	defer func() { _ = os.RemoveAll(home) }()

	base := []string{"--contacts", contacts, "--authorization", "authorized", "--history-backend", history}

	enableTimes := runCommand(config, home, append([]string{"enable"}, base...), 1, "Entries")
	if len(enableTimes) == 0 {
		return result
	}
	result.EnableTime = fmt.Sprintf("%.3fs", enableTimes[0])

	lookupArgs := append([]string{"lookup"}, base...)
	lookupArgs = append(lookupArgs, sampleNumbers(size, config.NumbersPerLook)...)
	times := runCommand(config, home, lookupArgs, config.LookupRuns, "Resolved")
	if len(times) > 0 {
		result.LookupCold = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		result.LookupWarmed = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  Enable: %s, Lookup cold: %s, Lookup warm average: %s\n",
		result.EnableTime, result.LookupCold, result.LookupWarmed)
	return result
}

// runCommand executes callerid numRuns times and returns the durations of successful runs
func runCommand(config BenchmarkConfig, home string, args []string, numRuns int, successPhrase string) []float64 {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("callerid", args...)
		cmd.Env = append(os.Environ(), "HOME="+home, "CALLERID_COLOR=no")

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), successPhrase) {
				times = append(times, time.Since(start).Seconds())
			} else {
				fmt.Printf("  Warning: %s run %d failed: %v\n", args[0], run, cmdErr)
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
			fmt.Printf("  Warning: %s run %d timed out\n", args[0], run)
		}
	}
	return times
}

// generateContacts writes size contacts with two numbers each, mixing domestic and international forms
func generateContacts(path string, size int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"name", "numbers"}); err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		mobile := fmt.Sprintf("+420 6%02d %03d %03d", i/1_000_000%100, i/1000%1000, i%1000)
		landline := fmt.Sprintf("02%07d", i)
		if err := writer.Write([]string{"Contact " + strconv.Itoa(i), mobile + ";" + landline}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// sampleNumbers picks n numbers spread across the generated address book, in domestic form
func sampleNumbers(size, n int) []string {
	step := max(size/n, 1)
	var out []string
	for i := 0; i < size && len(out) < n; i += step {
		out = append(out, fmt.Sprintf("6%02d%03d%03d", i/1_000_000%100, i/1000%1000, i%1000))
	}
	return out
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/callerid_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"contacts", "history", "enable_time", "lookup_cold", "lookup_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{strconv.Itoa(result.Contacts), result.History, result.EnableTime, result.LookupCold, result.LookupWarmed}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by history mode
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, history := range []string{"none", "sqlite"} {
		fmt.Printf("History backend %s:\n", history)
		for _, result := range results {
			if result.History != history {
				continue
			}
			fmt.Printf("  %7d contacts: enable %s, lookup cold %s, lookup warm %s\n",
				result.Contacts, result.EnableTime, result.LookupCold, result.LookupWarmed)
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
