package main

import (
	"github.com/dhamidi/yash/workspace"
	"github.com/spf13/cobra"
)

func newLSPCmd(flags *globalFlags) *cobra.Command {
	var (
		tcpAddr string
		wsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server (stdio by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			server := workspace.NewLSPServer(version, settings)
			switch {
			case tcpAddr != "":
				return server.RunTCP(tcpAddr)
			case wsAddr != "":
				return server.RunWebSocket(wsAddr)
			default:
				return server.RunStdio()
			}
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on a TCP address instead of stdio")
	cmd.Flags().StringVar(&wsAddr, "websocket", "", "listen for web socket connections on an address")
	cmd.MarkFlagsMutuallyExclusive("tcp", "websocket")

	return cmd
}
