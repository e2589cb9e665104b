package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aurelh/chronoplan/app"
	"github.com/aurelh/chronoplan/config"
	"github.com/aurelh/chronoplan/core/model"
	"github.com/aurelh/chronoplan/core/solver"
	"github.com/aurelh/chronoplan/infra/logger"
)

var (
	inputPath     string
	outputPath    string
	solverCfgPath string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a schedule for one day",
	RunE:  generate,
}

func init() {
	generateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "schedule input JSON file (required)")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the schedule to this file instead of stdout")
	generateCmd.Flags().StringVar(&solverCfgPath, "solver-config", "", "solver weights file (JSON or YAML), overrides the main config")
	_ = generateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if solverCfgPath != "" {
		scfg, err := solver.LoadConfig(solverCfgPath)
		if err != nil {
			return fmt.Errorf("load solver config: %w", err)
		}
		cfg.Solver = scfg
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input model.ScheduleInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	svc.Start(ctx)

	out := svc.Generate(ctx, input)
	if out.Err != "" {
		return fmt.Errorf("generation failed: %s", out.Err)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if outputPath != "" {
		return os.WriteFile(outputPath, append(encoded, '\n'), 0o644)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
