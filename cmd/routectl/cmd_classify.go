package main

import (
	"fmt"
	"os"

	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/reconciler"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	classifyLayout     string
	classifyRoute      string
	classifyThresholds string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Reconcile a route sheet locally and print every client's color state",
	Long: `Runs the same reconciliation and classification the server does, without
touching the database. Useful to check a sheet before uploading it.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyLayout, "layout", "single", "header layout: single, category or fallback")
	classifyCmd.Flags().StringVar(&classifyRoute, "route", "", "only show this route")
	classifyCmd.Flags().StringVar(&classifyThresholds, "thresholds", "", "threshold table YAML (defaults to THRESHOLDS_FILE)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	result, err := reconcileFile(args[0], classifyLayout)
	if err != nil {
		return err
	}

	table, err := loadThresholds(classifyThresholds)
	if err != nil {
		return err
	}

	records := result.Records
	if classifyRoute != "" {
		filtered := records[:0:0]
		for _, r := range records {
			if r.RouteCode == classifyRoute {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	out := cmd.OutOrStdout()
	printReconcileSummary(cmd, result)
	groups := classifyByRoute(classifier.New(table), records)
	renderGroups(out, groups)
	renderTotals(out, groups)
	return nil
}

func reconcileFile(path, layoutName string) (*reconciler.Result, error) {
	layout, err := reconciler.ParseLayout(layoutName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fail("failed to read %s: %w", path, err)
	}
	table, err := reconciler.Decode(data, reconciler.DetectFormat(path))
	if err != nil {
		return nil, err
	}
	return reconciler.NewReconciler().Reconcile(table, layout)
}

func loadThresholds(path string) (*classifier.ThresholdTable, error) {
	if path == "" {
		path = cfg.Query.ThresholdsFile
	}
	if path == "" {
		return classifier.DefaultThresholdTable(), nil
	}
	return classifier.LoadThresholdTable(path)
}

func printReconcileSummary(cmd *cobra.Command, result *reconciler.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Layout %s · %d registros · %s omitidos\n",
		result.Layout, len(result.Records), color.YellowString("%d", result.Skipped))

	mapped := 0
	for _, key := range result.Headers {
		if key != "" {
			mapped++
		}
	}
	fmt.Fprintf(out, "Columnas reconocidas: %d de %d\n", mapped, len(result.Headers))
}
