package cli

import (
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/core/majorize"
	"github.com/matzehuels/stresslayout/pkg/core/weight"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stresslayout.

Bash:
  $ source <(stresslayout completion bash)

Zsh (with compinit enabled):
  $ stresslayout completion zsh > "${fpath[1]}/_stresslayout"

Fish:
  $ stresslayout completion fish > ~/.config/fish/completions/stresslayout.fish

PowerShell:
  PS> stresslayout completion powershell | Out-String | Invoke-Expression

Flag values such as --format, --weight and --algorithm complete as well.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// flagValues lists the fixed values offered for enumerated flags.
func flagValues() map[string][]string {
	return map[string][]string{
		"format":      slices.Sorted(maps.Keys(pipeline.ValidFormats)),
		"algorithm":   slices.Sorted(maps.Keys(pipeline.ValidAlgorithms)),
		"weight":      weight.Names(),
		"termination": {majorize.StopOnEpsilon.String(), majorize.StopOnDelta.String()},
	}
}

// registerFlagCompletions attaches value completions to every command in
// the tree that defines one of the enumerated flags.
func registerFlagCompletions(cmd *cobra.Command) {
	for name, values := range flagValues() {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
	for _, sub := range cmd.Commands() {
		registerFlagCompletions(sub)
	}
}
