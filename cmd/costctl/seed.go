package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference or demo data",
}

var seedCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Create the default cost categories",
	Args:  cobra.NoArgs,
	RunE:  runSeedCategories,
}

var seedDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create an in-flight demo project",
	Args:  cobra.NoArgs,
	RunE:  runSeedDemo,
}

func init() {
	seedCmd.AddCommand(seedCategoriesCmd, seedDemoCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedCategories(_ *cobra.Command, _ []string) error {
	mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer mgr.Close()

	created, err := seed.Categories(mgr.DB())
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Println("  Default categories already present.")
		return nil
	}
	for _, c := range created {
		fmt.Printf("  Created %s (%s)\n", c.Name, c.Type)
	}
	return nil
}

func runSeedDemo(_ *cobra.Command, _ []string) error {
	mgr, err := openDatabase()
	if err != nil {
		return err
	}
	defer mgr.Close()

	project, err := seed.Demo(mgr.DB(), time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("  Demo project created: %s\n", project.ID)
	fmt.Printf("  Run 'costctl report %s' to view it.\n", project.ID)
	return nil
}
