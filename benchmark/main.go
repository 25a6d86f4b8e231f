// Package main provides a performance benchmarking tool for the fairprice CLI.
// It measures execution times across dataset sizes, storage formats and
// history backends, running each test multiple times and averaging the runs,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - fairprice binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic datasets and the history database are written
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the average time of one command per phase.
type BenchmarkResult struct {
	Dataset     string
	Command     string
	CSVTime     string
	ParquetTime string
	HistoryTime string
}

// DatasetSize describes one synthetic dataset.
type DatasetSize struct {
	Name     string
	Products int
	Months   int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Sizes    []DatasetSize
	Commands []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 5 * time.Minute,
		Runs:    4,
		Sizes: []DatasetSize{
			{Name: "small", Products: 2, Months: 24},
			{Name: "medium", Products: 50, Months: 60},
			{Name: "large", Products: 500, Months: 120},
		},
		Commands: []string{"scenarios", "matrix", "shock", "brief"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating datasets...\n")
	if err := generateDatasets(config); err != nil {
		fmt.Printf("Failed to generate datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the fairprice binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("fairprice"); err != nil {
		return fmt.Errorf("fairprice binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

func datasetPath(config BenchmarkConfig, size DatasetSize, ext string) string {
	return filepath.Join(config.WorkDir, fmt.Sprintf("behavioral_%s.%s", size.Name, ext))
}

// generateDatasets writes every dataset size as CSV and Parquet
func generateDatasets(config BenchmarkConfig) error {
	for _, size := range config.Sizes {
		for _, ext := range []string{"csv", "parquet"} {
			cmd := exec.Command("fairprice", "generate",
				"--products", strconv.Itoa(size.Products),
				"--months", strconv.Itoa(size.Months),
				"--output-file", datasetPath(config, size, ext))
			if output, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("generate %s %s: %w\nOutput: %s", size.Name, ext, err, string(output))
			}
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured dataset sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %d commands, %v timeout, %d runs per phase\n",
		len(config.Sizes), len(config.Commands), config.Timeout, config.Runs)

	historyDB := filepath.Join(config.WorkDir, "history.db")
	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %s (%d products x %d months)\n", size.Name, size.Products, size.Months)
		for _, command := range config.Commands {
			csvArgs := []string{command, "--data", datasetPath(config, size, "csv"), "--output", "json"}
			parquetArgs := []string{command, "--data", datasetPath(config, size, "parquet"), "--output", "json"}
			historyArgs := append(append([]string{}, csvArgs...), "--history-backend", "sqlite", "--history-db-connect", historyDB)

			result := BenchmarkResult{
				Dataset:     size.Name,
				Command:     command,
				CSVTime:     runPhase(config, csvArgs),
				ParquetTime: runPhase(config, parquetArgs),
				HistoryTime: runPhase(config, historyArgs),
			}
			fmt.Printf("  %-10s CSV: %s, Parquet: %s, CSV+history: %s\n", command, result.CSVTime, result.ParquetTime, result.HistoryTime)
			results = append(results, result)
		}
	}

	return results
}

// runPhase runs one argument set config.Runs times and formats the average
func runPhase(config BenchmarkConfig, args []string) string {
	times := runBenchmark(config, args)
	if len(times) == 0 {
		return "FAILED"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// runBenchmark executes a fairprice command multiple times and returns the successful run times
func runBenchmark(config BenchmarkConfig, args []string) []float64 {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("fairprice", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && len(output) > 0 {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}
	return times
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/fairprice_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "csv_avg", "parquet_avg", "history_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.CSVTime, result.ParquetTime, result.HistoryTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: CSV: %s, Parquet: %s, CSV+history: %s\n", result.Dataset, result.CSVTime, result.ParquetTime, result.HistoryTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
