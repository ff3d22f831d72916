package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yigit/schooladmin/internal/console/client"
	"github.com/yigit/schooladmin/internal/console/notify"
	"github.com/yigit/schooladmin/internal/console/orchestrator"
	"github.com/yigit/schooladmin/internal/console/projector"
	"github.com/yigit/schooladmin/internal/console/resources"
	"github.com/yigit/schooladmin/internal/console/store"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
)

// inputFlags binds the create and update flags of one collection.
type inputFlags[C any, P any] interface {
	register(cmd *cobra.Command, create bool)
	create() C
	// patch includes only the flags that were set on the command line.
	patch(cmd *cobra.Command) P
}

type viewFlags struct {
	sort   string
	order  string
	filter string
	page   int
	size   int
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.sort, "sort", "", "Sort key (default depends on the collection)")
	cmd.Flags().StringVar(&v.order, "order", "", "Sort order (asc|desc)")
	cmd.Flags().StringVar(&v.filter, "filter", "", "Case-insensitive text filter")
	cmd.Flags().IntVar(&v.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&v.size, "size", 0, fmt.Sprintf("Rows per page (default %d)", resources.DefaultPageSize))
}

// collection wires one resource descriptor into list/create/update/delete commands.
type collection[T store.Entity, C any, P any] struct {
	app      *App
	desc     resources.Descriptor[T, C, P]
	newFlags func() inputFlags[C, P]
}

func newCollectionCmd[T store.Entity, C any, P any](app *App, d resources.Descriptor[T, C, P], short string, newFlags func() inputFlags[C, P]) *cobra.Command {
	col := &collection[T, C, P]{app: app, desc: d, newFlags: newFlags}

	cmd := &cobra.Command{
		Use:   d.Name,
		Short: short,
	}
	cmd.AddCommand(col.listCmd())
	cmd.AddCommand(col.createCmd())
	cmd.AddCommand(col.updateCmd())
	cmd.AddCommand(col.deleteCmd())
	return cmd
}

func (col *collection[T, C, P]) session(cmd *cobra.Command, c *client.Client) *orchestrator.Orchestrator[T, C, P] {
	lgr := col.app.logger.With().Str("component", "orchestrator").Str("collection", col.desc.Name).Logger()
	return orchestrator.New[T](
		store.New[T](),
		client.NewResource[T, C, P](c, col.desc.Path),
		orchestrator.Options[C, P]{
			ValidateCreate: col.desc.ValidateCreate,
			ValidateUpdate: col.desc.ValidateUpdate,
			Bridge:         notify.NewBridge(col.app.sink(cmd)),
			Logger:         &lgr,
		},
	)
}

func (col *collection[T, C, P]) listCmd() *cobra.Command {
	var view viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + col.desc.Name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			o := col.session(cmd, col.app.client())
			if err := o.Refresh(ctx).Wait(); err != nil {
				return unreported(cmd, err)
			}
			return col.show(cmd, o.Store().Items(), view)
		},
	}
	view.register(cmd)
	return cmd
}

func (col *collection[T, C, P]) createCmd() *cobra.Command {
	flags := col.newFlags()
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record in " + col.desc.Name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return col.mutate(cmd, func(o *orchestrator.Orchestrator[T, C, P]) (*orchestrator.Pending, error) {
				return o.Create(commandContext(cmd), flags.create())
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func (col *collection[T, C, P]) updateCmd() *cobra.Command {
	flags := col.newFlags()
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a record in " + col.desc.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return col.mutate(cmd, func(o *orchestrator.Orchestrator[T, C, P]) (*orchestrator.Pending, error) {
				return o.Update(commandContext(cmd), id, flags.patch(cmd))
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (col *collection[T, C, P]) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record from " + col.desc.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return col.mutate(cmd, func(o *orchestrator.Orchestrator[T, C, P]) (*orchestrator.Pending, error) {
				return o.Delete(commandContext(cmd), id)
			})
		},
	}
	return cmd
}

// mutate loads the collection, submits one mutation and prints the refreshed
// first page.
func (col *collection[T, C, P]) mutate(cmd *cobra.Command, submit func(*orchestrator.Orchestrator[T, C, P]) (*orchestrator.Pending, error)) error {
	ctx := commandContext(cmd)
	c := col.app.client()
	if err := col.app.authenticate(ctx, c); err != nil {
		return writeErr(cmd, err)
	}

	o := col.session(cmd, c)
	if err := o.Refresh(ctx).Wait(); err != nil {
		return unreported(cmd, err)
	}

	pending, err := submit(o)
	if err != nil {
		return writeErr(cmd, err)
	}
	err = pending.Wait()
	o.Wait()
	if err != nil {
		return unreported(cmd, err)
	}
	return col.show(cmd, o.Store().Items(), viewFlags{page: 1})
}

func (col *collection[T, C, P]) show(cmd *cobra.Command, items []T, view viewFlags) error {
	q := col.desc.Query(view.sort, projector.Direction(view.order), view.filter, view.page-1, view.size)
	page, err := projector.Project(items, q, col.desc.Schema)
	if err != nil {
		return writeErr(cmd, apperrors.NewValidationError("", err.Error()))
	}

	info := helpers.NewPaginationInfo(page.FilteredCount, q.Page+1, q.PageSize)
	if col.app.Format == FormatJSON {
		return writeJSON(cmd, map[string]any{
			"data": page.Items,
			"meta": map[string]any{
				"pagination": info,
				"totalCount": page.TotalCount,
			},
		})
	}

	out := cmd.OutOrStdout()
	if page.NotFound {
		footer(out, "No %s match %q", col.desc.Name, q.Filter)
		return nil
	}

	t := &table{headers: col.desc.Headers()}
	for _, item := range page.Items {
		t.add(col.desc.Row(item)...)
	}
	t.blank(page.EmptyRows)
	t.render(out)

	footer(out, "Page %d of %d, %d of %d %s", info.CurrentPage, info.TotalPages, page.FilteredCount, page.TotalCount, col.desc.Name)
	return nil
}

// unreported prints the failures the notification bridge does not carry.
func unreported(cmd *cobra.Command, err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindAuthorization:
		return writeErr(cmd, err)
	}
	return err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}
