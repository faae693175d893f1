package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// completionShells lists the shells GenerateCompletion supports.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion " + strings.Join(completionShells, "|"),
		Short: "Generate shell completion script",
		Long: `Generate a completion script for p4x.

  bash:        source <(p4x completion bash)
  zsh:         p4x completion zsh > "${fpath[1]}/_p4x"
  fish:        p4x completion fish | source
  powershell:  p4x completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: completionShells,
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenerateCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

// GenerateCompletion writes the completion script of root for shell to w.
// Scripts include command descriptions where the shell can show them.
func GenerateCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q (want one of %s)", shell, strings.Join(completionShells, ", "))
}
