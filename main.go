package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Output
	outputFile      string
	jsonOutput      bool
	jsonPath        string
	pdfOutputFile   string
	copyToClipboard bool

	// Traversal
	maxDepth   int
	maxWorkers int
	chunkSize  int
	ignoreFile string

	// Logging
	logLevel string
	logFile  string
)

// version is the application version, set via ldflags.
var version string = "dev" // Default for local builds

var rootCmd = &cobra.Command{
	Use:   "argus ARCHIVE_PATH",
	Short: "Argus maps the complete structure of an archive into a described report.",
	Long: `Argus extracts an archive (zip or tar.gz), clones a git URL, or takes an
existing directory, walks every file and folder inside it, attaches a
heuristic description to each entry, and writes a markdown report of the
full structure. Optional JSON and PDF artifacts mirror the report.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer, err := newLogger(logLevel, logFile)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		opts := Options{
			Input:      args[0],
			OutputPath: outputFile,
			MaxDepth:   maxDepth,
			MaxWorkers: maxWorkers,
			ChunkSize:  chunkSize,
			PDFPath:    pdfOutputFile,
			Clipboard:  copyToClipboard,
			IgnoreFile: ignoreFile,
		}
		// --json enables the artifact at the default path; a bare
		// --json-path enables it too.
		if jsonOutput || cmd.Flags().Changed("json-path") {
			opts.JSONPath = jsonPath
		}
		if err := opts.normalize(); err != nil {
			return err
		}

		orch, err := newOrchestrator(opts, logger)
		if err != nil {
			return err
		}
		res, err := orch.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Report saved to %s\n", res.ReportPath)
		if res.JSONPath != "" {
			fmt.Printf("JSON structure saved to %s\n", res.JSONPath)
		}
		return nil
	},
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve one JSON mapping request over stdin/stdout.",
	Long: `Bridge reads a single JSON object {"command", "params", "request_id"}
from stdin, runs the command (ping, describe, or map), and writes a single
JSON response to stdout. All logging goes to stderr so stdout stays
machine-readable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer, err := newLogger(logLevel, logFile)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		return newBridge(logger, os.Stdin, os.Stdout).ServeOnce(cmd.Context())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Output
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", defaultOutputFile, "Output markdown file path")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	rootCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Also write the structure as a JSON artifact")
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
	rootCmd.Flags().StringVar(&jsonPath, "json-path", defaultJSONFile, "JSON artifact file path")
	viper.BindPFlag("json_path", rootCmd.Flags().Lookup("json-path"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Also write the report as a PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the markdown report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))

	// Traversal
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", defaultMaxDepth, "Maximum directory depth to process")
	viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	rootCmd.Flags().IntVar(&maxWorkers, "max-workers", defaultMaxWorkers, "Maximum number of classification workers per batch")
	viper.BindPFlag("max_workers", rootCmd.Flags().Lookup("max-workers"))
	rootCmd.Flags().IntVar(&chunkSize, "chunk-size", defaultChunkSize, "Batch size for processing items")
	viper.BindPFlag("chunk_size", rootCmd.Flags().Lookup("chunk-size"))
	rootCmd.Flags().StringVar(&ignoreFile, "ignore-file", "", "Gitignore-syntax file of patterns to skip during traversal")
	viper.BindPFlag("ignore_file", rootCmd.Flags().Lookup("ignore-file"))

	// Logging (shared with the bridge subcommand)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile(time.Now()), "Log file path ('-' disables the file stream)")
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	viper.SetDefault("output", defaultOutputFile)
	viper.SetDefault("json_path", defaultJSONFile)
	viper.SetDefault("max_depth", defaultMaxDepth)
	viper.SetDefault("max_workers", defaultMaxWorkers)
	viper.SetDefault("chunk_size", defaultChunkSize)
	viper.SetDefault("log_level", "info")

	rootCmd.AddCommand(bridgeCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	// Search config in home/.config/argus with name "config" (without extension).
	viper.AddConfigPath(filepath.Join(home, ".config", "argus"))
	viper.AddConfigPath(".") // Also look in current directory
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AutomaticEnv() // read in environment variables that match ARGUS_*
	viper.SetEnvPrefix("ARGUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
	}

	// Flags win over config and environment; everything the user left at its
	// default takes the viper-resolved value instead.
	if !rootCmd.Flags().Changed("output") {
		outputFile = viper.GetString("output")
	}
	if !rootCmd.Flags().Changed("json") {
		jsonOutput = viper.GetBool("json")
	}
	if !rootCmd.Flags().Changed("json-path") {
		jsonPath = viper.GetString("json_path")
	}
	if !rootCmd.Flags().Changed("pdf") {
		pdfOutputFile = viper.GetString("pdf")
	}
	if !rootCmd.Flags().Changed("clipboard") {
		copyToClipboard = viper.GetBool("clipboard")
	}
	if !rootCmd.Flags().Changed("ignore-file") {
		ignoreFile = viper.GetString("ignore_file")
	}
	if !rootCmd.Flags().Changed("max-depth") {
		maxDepth = viper.GetInt("max_depth")
	}
	if !rootCmd.Flags().Changed("max-workers") {
		maxWorkers = viper.GetInt("max_workers")
	}
	if !rootCmd.Flags().Changed("chunk-size") {
		chunkSize = viper.GetInt("chunk_size")
	}
	if !rootCmd.PersistentFlags().Changed("log-level") {
		logLevel = viper.GetString("log_level")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
