// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/jcodagnone/grocerydist/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the distance map for a local preview",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, g, stores, err := buildPage(cmd.Context())
		if err != nil {
			return err
		}

		s, err := server.NewServer(page, g, stores)
		if err != nil {
			return err
		}

		return s.Run(serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addGridFlags(serveCmd)
	addColorFlags(serveCmd)
	addMapFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "Address to listen on")
}
