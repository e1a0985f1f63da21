package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Costos-api/internal/bootstrap"
	"github.com/jhoicas/Costos-api/pkg/config"
	"github.com/jhoicas/Costos-api/pkg/logger"
)

// env configuración y logger comunes a todos los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "cogs",
		Short: "Trabajos por lotes del motor de costos",
		Long: `Ejecuta los trabajos reanudables del motor de costos (aplicar costos a pedidos
previos, normalizar productos variables) y tareas de mantenimiento.

Pensado para cron: si una ejecución se corta, la siguiente continúa desde el cursor guardado.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{
				Env:     cfg.App.Env,
				Level:   cfg.App.LogLevel,
				Service: "cogs-cli",
				Output:  cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.AddCommand(
		newApplyCostsCmd(e),
		newMigrateVariableCostsCmd(e),
		newMigrateSchemaCmd(e),
		newIssueTokenCmd(e),
	)
	return root
}

// container arma los casos de uso; el llamador debe cerrar el resultado.
func (e *env) container(cmd *cobra.Command) (*bootstrap.Container, error) {
	c, err := bootstrap.Build(cmd.Context(), e.cfg, e.log)
	if err != nil {
		return nil, fmt.Errorf("inicializar dependencias: %w", err)
	}
	return c, nil
}
