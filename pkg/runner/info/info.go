package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/store"
)

type Info struct {
	Config *store.FileConfig
	App    *app.Service
	Out    io.Writer
}

func (n *Info) out() io.Writer {
	if n.Out == nil {
		return color.Output
	}
	return n.Out
}

func (n *Info) Do(ctx context.Context) error {
	w := n.out()

	if override := os.Getenv(store.ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintf(w, "%s found on env, using %s\n", store.ConfigPathEnv, override)
	} else {
		_, _ = fmt.Fprintf(w, "%s env var not set\n", store.ConfigPathEnv)
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Config.path:", n.Config.BasePath())
	tbl.AddRow("Config.namespace:", n.Config.Namespace())
	tbl.AddRow("Config.category:", n.Config.Category)
	tbl.AddRow("Config.style:", n.Config.StylePack)
	_, _ = fmt.Fprintln(w, tbl)

	if n.App == nil || n.App.Persistence == nil {
		return errors.New("failed to create persistence object")
	}

	last, err := n.App.LastMonth(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Last month: %s\n", last)

	months, err := n.App.Months(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Months:\n")
	for _, m := range months {
		set, err := n.App.Month(ctx, m)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "  %s  %-14s %d days\n", m, m.Label(), len(set))
	}
	if len(months) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", "no months")
	}

	return nil
}
