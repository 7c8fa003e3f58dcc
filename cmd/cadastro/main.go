package main

import (
	"fmt"
	"os"

	"github.com/federal-associados/app-cadastro/internal/config"
	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	layoutFlag string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cadastro",
	Short: "Cadastro de associados da Federal Associados pelo terminal",
	Long: `cadastro conduz o formulário de cadastro em passos pelo terminal e
envia o resultado para a Federal Associados com o código de indicação
configurado.

Run without arguments to start the interactive wizard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(); err != nil {
			return err
		}
		// logs would interleave with the prompts
		if verbose {
			if err := logging.InitLogger(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Logger.Sync()
	},
	RunE: runWizardCmd,
}

// wizardCmd runs the interactive registration
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Preencher e enviar um cadastro",
	RunE:  runWizardCmd,
}

// plansCmd prints the plan catalog
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Listar os planos disponíveis",
	RunE:  runPlans,
}

// cepCmd looks up a postal code
var cepCmd = &cobra.Command{
	Use:   "cep <cep>",
	Short: "Consultar um CEP",
	Args:  cobra.ExactArgs(1),
	RunE:  runCEP,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable JSON logging to stderr")
	rootCmd.PersistentFlags().StringVar(&layoutFlag, "layout", "", "Wizard layout: four or five (default: WIZARD_LAYOUT)")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(cepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
