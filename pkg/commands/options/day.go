package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/record"
)

// DayOptions are the editable fields of a day. Only flags given on the
// command line are applied.
type DayOptions struct {
	Idea     string
	Prompt   string
	Title    string
	Category string
	Status   string
	Generate bool
}

func AddDayArgs(cmd *cobra.Command, o *DayOptions) {
	cmd.Flags().StringVar(&o.Idea, "idea", "",
		"Content idea for the day.")
	cmd.Flags().StringVar(&o.Prompt, "prompt", "",
		"Replacement image prompt.")
	cmd.Flags().StringVar(&o.Title, "title", "",
		"Display title; empty falls back to the idea's first line.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Content category, by name or slug (buyer-tips).")
	cmd.Flags().StringVarP(&o.Status, "status", "s", "",
		"Publishing status: draft, ready or posted.")
	cmd.Flags().BoolVarP(&o.Generate, "generate", "g", false,
		"Recompose the prompt from the idea and category.")
}

// Update builds the app.DayUpdate for the flags that were set.
func (o *DayOptions) Update(cmd *cobra.Command) (app.DayUpdate, error) {
	changed := cmd.Flags().Changed
	u := app.DayUpdate{Generate: o.Generate}
	if changed("idea") {
		u.Idea = &o.Idea
	}
	if changed("prompt") {
		u.Prompt = &o.Prompt
	}
	if changed("title") {
		u.Title = &o.Title
	}
	if changed("category") {
		c, err := record.ParseCategory(o.Category)
		if err != nil {
			return app.DayUpdate{}, err
		}
		u.Category = &c
	}
	if changed("status") {
		s, err := record.ParseStatus(o.Status)
		if err != nil {
			return app.DayUpdate{}, err
		}
		u.Status = &s
	}
	return u, nil
}
