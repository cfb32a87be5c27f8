package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/domain"
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/idgen"
	"course-portal/internal/pkg/validate"

	"github.com/spf13/cobra"
)

// portal bundles the services a command works with
type portal struct {
	cfg         *config.Config
	store       *store.Store
	session     *services.SessionService
	catalog     *services.CatalogService
	enrollments *services.EnrollmentService
	analytics   *services.AnalyticsService
	query       *services.Query
}

func newPortal(cfg *config.Config, st *store.Store) *portal {
	v := validate.New(validate.CodeRule(cfg.Catalog.CodeRule))
	ids := idgen.New(nil)
	catalog := services.NewCatalogService(st, v, ids)
	enrollments := services.NewEnrollmentService(st, catalog)

	return &portal{
		cfg:         cfg,
		store:       st,
		session:     services.NewSessionService(st, v, ids, cfg),
		catalog:     catalog,
		enrollments: enrollments,
		analytics:   services.NewAnalyticsService(catalog, enrollments),
		query:       services.NewQuery(cfg.Catalog.PageSize),
	}
}

// opener opens the portal; the returned func releases it
type opener func(ctx context.Context) (*portal, func(), error)

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Inspect and maintain the course portal store",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newSeedCmd(open),
		newCoursesCmd(open),
		newAnalyticsCmd(open),
		newPurgeSessionCmd(open),
	)
	return root
}

// withPortal runs fn against an opened portal
func withPortal(cmd *cobra.Command, open opener, fn func(ctx context.Context, p *portal) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, p)
}

func newSeedCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed mock accounts and the shared catalog into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPortal(cmd, open, func(ctx context.Context, p *portal) error {
				if err := config.NewSeeder(p.store, p.cfg.Session.BcryptCost).Run(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "store seeded")
				return nil
			})
		},
	}
}

func newCoursesCmd(open opener) *cobra.Command {
	var (
		owner    int64
		status   string
		search   string
		category string
		sortKey  string
	)

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the shared catalog, or one faculty member's courses with --owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPortal(cmd, open, func(ctx context.Context, p *portal) error {
				var (
					courses []domain.Course
					err     error
				)
				if owner != 0 {
					user, lookupErr := p.session.Lookup(ctx, owner)
					if lookupErr != nil {
						return lookupErr
					}
					courses, err = p.catalog.List(ctx, *user)
				} else {
					courses, err = p.catalog.Catalog(ctx)
				}
				if err != nil {
					return err
				}

				switch status {
				case "active":
					courses = services.Active(courses)
				case "deleted":
					courses = services.Deleted(courses)
				case "all":
				default:
					return fmt.Errorf("--status must be active, deleted or all")
				}

				courses = services.SortCourses(services.Filter(courses, search, category), services.SortKey(sortKey))
				return printCourses(cmd.OutOrStdout(), courses)
			})
		},
	}

	cmd.Flags().Int64Var(&owner, "owner", 0, "faculty user id")
	cmd.Flags().StringVar(&status, "status", "active", "active | deleted | all")
	cmd.Flags().StringVar(&search, "search", "", "match title, code or description")
	cmd.Flags().StringVar(&category, "category", "", "exact category")
	cmd.Flags().StringVar(&sortKey, "sort", "", "title | date | level")
	return cmd
}

func newAnalyticsCmd(open opener) *cobra.Command {
	var (
		owner  int64
		window string
		output string
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Export a faculty member's enrollment analytics as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := services.ParseWindow(window)
			if err != nil {
				return err
			}

			return withPortal(cmd, open, func(ctx context.Context, p *portal) error {
				user, err := p.session.Lookup(ctx, owner)
				if err != nil {
					return err
				}

				report, err := p.analytics.Report(ctx, *user, w)
				if err != nil {
					return err
				}

				switch output {
				case "-":
					return services.WriteCSV(cmd.OutOrStdout(), report)
				case "":
					output = services.CSVFilename(w, time.Now())
				}

				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := services.WriteCSV(f, report); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d courses, %d enrollments)\n", output, len(report.Courses), report.TotalEnrollments)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&owner, "owner", 0, "faculty user id")
	cmd.Flags().StringVar(&window, "window", string(services.WindowAll), "all | week | month | semester")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; - for stdout (default course_analytics_<window>_<date>.csv)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newPurgeSessionCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-session",
		Short: "Remove the persisted session so the portal starts logged out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPortal(cmd, open, func(ctx context.Context, p *portal) error {
				if err := p.session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "session purged")
				return nil
			})
		},
	}
}

func printCourses(out io.Writer, courses []domain.Course) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tTITLE\tCATEGORY\tLEVEL\tENROLLED\tACTIVE")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d/%d\t%t\n", c.ID, c.Code, c.Title, c.Category, c.Level, c.Enrolled, c.Capacity, c.IsActive)
	}
	return tw.Flush()
}
