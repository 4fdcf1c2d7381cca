package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	agentPeriod string
	agentClient string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Ask the analysis agent for its report",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newWebhookClient()

		text, err := client.AgentReport(cmd.Context(), agentPeriod, agentClient)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	agentCmd.Flags().StringVar(&agentPeriod, "periodo", "", "period selection forwarded to the agent")
	agentCmd.Flags().StringVar(&agentClient, "cliente", "", "client selection forwarded to the agent")
	rootCmd.AddCommand(agentCmd)
}
