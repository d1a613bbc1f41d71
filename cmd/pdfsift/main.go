// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfsift CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdfsift CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfsift",
	Short: "Convert PDF files into text, table, and image artifacts",
	Long: `pdfsift converts PDF documents into plain text, CSV tables, and PNG
image crops. Point it at a single PDF or at a directory of PDFs; detected
tables and placed images are named after nearby captions when one is found.

Each operation is a subcommand: convert, inspect, catalog, and version.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfsift.yaml or ~/.pdfsift/pdfsift.yaml)")
}

func initConfig() {
	// A project-local .env file can supply PDFSIFT_* variables.
	godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfsift")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".pdfsift"))
		}
	}

	viper.SetEnvPrefix("PDFSIFT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
