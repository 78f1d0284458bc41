package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/commando/internal/logging"
	"github.com/fyrsmithlabs/commando/internal/modules"
)

// newModuleCmd wraps a project module. Flags after the command name
// belong to the module, so cobra does not parse them.
func newModuleCmd(a *app, m *modules.Module) *cobra.Command {
	short := m.Description
	if short == "" {
		short = fmt.Sprintf("Run %s", m.Path)
	}
	return &cobra.Command{
		Use:                m.Name,
		Short:              short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := logging.WithCommand(logging.WithProject(cmd.Context(), a.cfg.ProjectRoot), m.Name)
			logging.FromContext(ctx).Debug(ctx, "running module",
				zap.String("load_path", m.LoadPath),
				zap.Strings("args", a.moduleArgs),
			)
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("module %s panicked: %v", m.Name, r)
				}
			}()
			if err := m.Run(a.moduleArgs); err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			return nil
		},
	}
}
