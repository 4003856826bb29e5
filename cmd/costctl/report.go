package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/cli"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/uuid"
)

var flagNoTimeline bool

var reportCmd = &cobra.Command{
	Use:   "report <project-id>",
	Short: "EVM report for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&flagNoTimeline, "no-timeline", false, "Skip the monthly forecast")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	projectID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}

	mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer mgr.Close()

	dashboard := services.NewDashboardService(mgr.DB(), cfg.EVM, cfg.Dashboard)

	summary, err := dashboard.GetProjectSummary(projectID)
	if err != nil {
		return err
	}

	var timeline *services.TimelineResponse
	if !flagNoTimeline {
		if timeline, err = dashboard.GetEVMTimeline(projectID); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Print(cli.RenderReport(summary, timeline))
	fmt.Println()
	return nil
}
