package options

import (
	"errors"
	"io"
	"io/ioutil"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/record"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Pick missing values from a menu.`)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Confirm returns an app.ConfirmFunc that asks on the command's terminal.
// Answering no, or aborting with ctrl-c, reads as false.
func Confirm(cmd *cobra.Command) app.ConfirmFunc {
	return func(question string) (bool, error) {
		p := promptui.Prompt{
			Label:     question,
			IsConfirm: true,
			Stdin:     ioutil.NopCloser(cmd.InOrStdin()),
			Stdout:    nopWriteCloser{cmd.OutOrStdout()},
		}
		if _, err := p.Run(); err != nil {
			if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
}

func selectIndex(cmd *cobra.Command, label string, items []string, current string) (int, error) {
	cursor := 0
	for i, it := range items {
		if it == current {
			cursor = i
		}
	}
	s := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor,
		Size:      len(items),
		Stdin:     ioutil.NopCloser(cmd.InOrStdin()),
		Stdout:    nopWriteCloser{cmd.OutOrStdout()},
	}
	i, _, err := s.Run()
	return i, err
}

// SelectCategory lets the user pick a content category.
func SelectCategory(cmd *cobra.Command, current record.Category) (record.Category, error) {
	all := record.AllCategories()
	items := make([]string, len(all))
	for i, c := range all {
		items[i] = string(c)
	}
	i, err := selectIndex(cmd, "Category", items, string(current))
	if err != nil {
		return "", err
	}
	return all[i], nil
}

// SelectStatus lets the user pick a publishing status.
func SelectStatus(cmd *cobra.Command, current record.Status) (record.Status, error) {
	all := record.AllStatuses()
	items := make([]string, len(all))
	for i, s := range all {
		items[i] = string(s)
	}
	i, err := selectIndex(cmd, "Status", items, string(current))
	if err != nil {
		return "", err
	}
	return all[i], nil
}
