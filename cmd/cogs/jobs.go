package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/infrastructure/postgres"
)

type runFlags struct {
	maxPages       int
	pagesPerSecond float64
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxPages, "max-pages", 0, "detenerse tras N páginas (0 = hasta terminar)")
	cmd.Flags().Float64Var(&f.pagesPerSecond, "pages-per-second", 0, "ritmo máximo de páginas por segundo (0 = sin límite)")
}

// options traduce las flags; el limitador deja pasar la primera página sin espera.
func (f *runFlags) options() cogs.RunOptions {
	opts := cogs.RunOptions{MaxPages: f.maxPages}
	if f.pagesPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(f.pagesPerSecond), 1)
		opts.Pace = limiter.Wait
	}
	return opts
}

func printRun(cmd *cobra.Command, job string, res cogs.RunResult) {
	status := "completado"
	if !res.Completed {
		status = "pendiente (continúa en la próxima ejecución)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d actualizados en %d páginas, %s\n", job, res.Processed, res.Pages, status)
}

func explainAbort(err error) error {
	var abort *cogs.AbortError
	if errors.As(err, &abort) {
		return fmt.Errorf("%w (la próxima ejecución retoma desde el offset %d)", err, abort.Offset)
	}
	return err
}

func newApplyCostsCmd(e *env) *cobra.Command {
	var mode string
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "apply-costs",
		Short: "Aplica costos a pedidos previos",
		Long: `Recorre los pedidos por fecha de creación, congela su costo y asigna el costo de
sus reembolsos.

  fill-missing   solo pedidos sin costo total (no usa cursor)
  overwrite-all  todos los pedidos, reanudable desde el cursor guardado`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := cogs.ParseBackfillMode(mode)
			if err != nil {
				return err
			}
			c, err := e.container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Backfill.Run(cmd.Context(), m, flags.options())
			printRun(cmd, "apply-costs", res)
			return explainAbort(err)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(cogs.BackfillFillMissing), "fill-missing | overwrite-all")
	flags.register(cmd)
	return cmd
}

func newMigrateVariableCostsCmd(e *env) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "migrate-variable-costs",
		Short: "Normaliza el costo de las variaciones y el rango de cada producto variable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Migration.Run(cmd.Context(), flags.options())
			printRun(cmd, "migrate-variable-costs", res)
			return explainAbort(err)
		},
	}
	flags.register(cmd)
	return cmd
}

func newMigrateSchemaCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-schema",
		Short: "Crea las tablas de PostgreSQL si no existen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			if c.Pool == nil {
				return fmt.Errorf("migrate-schema requiere STORE_DRIVER=postgres")
			}
			if err := postgres.Migrate(cmd.Context(), c.Pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "esquema actualizado")
			return nil
		},
	}
}
