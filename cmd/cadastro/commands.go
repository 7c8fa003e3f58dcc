package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/federal-associados/app-cadastro/internal/config"
	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/models"
	"github.com/federal-associados/app-cadastro/internal/services"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newCEPService builds an uncached lookup; the CLI runs without Redis
func newCEPService(cfg *config.Config) *services.CEPService {
	return services.NewCEPService(nil, cfg.CEPBaseURL, 0, cfg.CEPTimeout, nil, logging.Logger)
}

func runWizardCmd(cmd *cobra.Command, args []string) error {
	cfg := config.AppConfig

	name := cfg.WizardLayout
	if layoutFlag != "" {
		name = layoutFlag
	}
	layout, err := wizard.ParseLayout(name)
	if err != nil {
		return err
	}

	proxy, err := services.NewRegistrationProxy(services.ProxyConfigFrom(cfg), nil, logging.Logger)
	if err != nil {
		return fmt.Errorf("failed to configure registration proxy: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	f := &flow{
		prompt:    surveyPrompter{},
		finder:    newCEPService(cfg),
		submitter: proxy,
		out:       cmd.OutOrStdout(),
	}

	_, err = f.run(ctx, wizard.New(uuid.NewString(), layout))
	if errors.Is(err, errAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "\nCadastro cancelado.")
		return nil
	}
	return err
}

func runPlans(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPERADORA\tID\tPLANO\tPREÇO")
	for _, op := range models.Plans() {
		for _, plan := range op.Plans {
			fmt.Fprintf(w, "%s\t%s\t%s\tR$ %s\n", op.Operator, plan.ID, plan.Name, plan.Price)
		}
	}
	return w.Flush()
}

func runCEP(cmd *cobra.Command, args []string) error {
	addr, err := newCEPService(config.AppConfig).LookupCEP(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !addr.Found {
		return fmt.Errorf("CEP %s não encontrado", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rua:    %s\n", addr.Street)
	fmt.Fprintf(out, "Bairro: %s\n", addr.District)
	fmt.Fprintf(out, "Cidade: %s/%s\n", addr.City, addr.State)
	return nil
}
