// Vetgate is a per-CI-run validation orchestrator. It runs a set of
// validation agents (type-check, lint, unit tests, Docker build, secret
// scan) against each application module, prioritizing agents that failed on
// the previous run, and exits 0 only when every module passes every agent.
//
// Usage:
//
//	# Validate everything with defaults
//	vetgate run
//
//	# Restrict scope
//	vetgate run --modules suppliers,customers --agents lint,unittest
//
//	# Configure via file or environment
//	vetgate run --config ./vetgate.yaml
//	VETGATE_MEMORY_PROVIDER=sqlite vetgate run
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vetgate/internal/config"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

var (
	configPath  string
	modulesFlag string
	agentsFlag  string

	// exitCode is set by the run command; cobra errors force 1 regardless.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "vetgate",
	Short: "Multi-agent validation gate for CI",
	Long: `vetgate coordinates independent validation agents across application
modules, reorders agents so previous failures run first, aggregates outcomes
per module, and escalates unresolved failures for human review.`,
	Version:       fmt.Sprintf("%s (%s)", version, gitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all agents against all modules and gate the result",
	Long: `Run the validation pipeline: a global systems check once, then for each
module in scope every agent in scope, concurrently per module.

Exit code 0 means every module has a passing result for every declared agent.
Anything else, including a fatal error, exits 1.

Examples:
  # Full run with defaults
  vetgate run

  # Only two modules, only the fast agents
  vetgate run --modules suppliers,customers --agents lint,typecheck`,
	RunE: runValidation,
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List declared agents and modules",
	RunE:  listAgents,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vetgate %s (%s)\n", version, gitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/vetgate/config.yaml)")
	runCmd.Flags().StringVar(&modulesFlag, "modules", "", "comma-separated modules to validate (default: all declared)")
	runCmd.Flags().StringVar(&agentsFlag, "agents", "", "comma-separated agents to run (default: all registered)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(run())
}

// run is the top-level safety net: every fatal error and recovered panic
// lands here exactly once and forces exit code 1.
func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "vetgate: fatal: %v\n", r)
			code = 1
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vetgate: %v\n", err)
		return 1
	}
	return exitCode
}

func listAgents(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	fmt.Printf("global agent: %s\n", deps.global.Name())
	fmt.Println("agents:")
	for _, name := range deps.registry.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("modules:")
	for _, name := range cfg.Run.Modules {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func runValidation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer deps.close()

	scope, err := deps.service.ResolveScope(modulesFlag, agentsFlag)
	if err != nil {
		return err
	}

	report, err := deps.service.Run(cmd.Context(), scope)
	if err != nil {
		deps.logger.Error("validation run failed", zap.Error(err))
		return err
	}

	report.Render(os.Stdout, deps.service.Agents())
	exitCode = report.ExitCode(deps.service.Agents())
	return nil
}
