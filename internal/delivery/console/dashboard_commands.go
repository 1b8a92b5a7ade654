package console

import (
	"context"
	"strconv"
	"time"

	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/entity"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var statsRanges = map[string]entity.StatsRange{
	"all":   entity.RangeAllTime,
	"year":  entity.RangeLastYear,
	"month": entity.RangeLastMonth,
}

// show issues a read whose result is rendered as text.
func (c *Console) show(cmd *cobra.Command, read func(ctx context.Context) (string, error)) {
	c.issue(cmd, func(ctx context.Context) error {
		text, err := read(ctx)
		if err != nil {
			return err
		}
		c.runner.Show(text)

		return nil
	})
}

type availableOptions struct {
	types       []string
	minWeight   float64
	maxWeight   float64
	minVolume   float64
	maxVolume   float64
	from        string
	to          string
	onlyAllowed bool
}

// filter keeps only the bounds the user set.
func (o *availableOptions) filter(cmd *cobra.Command) (entity.AvailableFilter, error) {
	flags := cmd.Flags()
	filter := entity.AvailableFilter{TypeNames: o.types, OnlyAllowed: o.onlyAllowed}

	bounds := []struct {
		name  string
		value float64
		dst   **float64
	}{
		{"min-weight", o.minWeight, &filter.MinWeight},
		{"max-weight", o.maxWeight, &filter.MaxWeight},
		{"min-volume", o.minVolume, &filter.MinVolume},
		{"max-volume", o.maxVolume, &filter.MaxVolume},
	}
	for _, b := range bounds {
		if flags.Changed(b.name) {
			value := b.value
			*b.dst = &value
		}
	}

	if flags.Changed("from") {
		from, err := time.ParseInLocation(dateLayout, o.from, time.Local)
		if err != nil {
			return filter, domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, o.from)
		}
		from = from.UTC()
		filter.From = &from
	}
	if flags.Changed("to") {
		to, err := time.ParseInLocation(dateLayout, o.to, time.Local)
		if err != nil {
			return filter, domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, o.to)
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond).UTC()
		filter.To = &to
	}

	return filter, nil
}

func (c *Console) availableCommand() *cobra.Command {
	var options availableOptions
	cmd := &cobra.Command{
		Use:   "available",
		Short: "List items nobody reserved yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := options.filter(cmd)
			c.show(cmd, func(ctx context.Context) (string, error) {
				if err != nil {
					return "", err
				}
				var taxID string
				if filter.OnlyAllowed {
					actor, err := c.actor(ctx, entity.ActorOrganization)
					if err != nil {
						return "", err
					}
					taxID = actor.Identifier
				}
				records, err := c.dashboard.AvailableItems(ctx, filter, taxID)
				if err != nil {
					return "", err
				}

				return c.records(records), nil
			})

			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&options.types, "type", nil, "disposal type names")
	flags.Float64Var(&options.minWeight, "min-weight", 0, "minimum weight in kg")
	flags.Float64Var(&options.maxWeight, "max-weight", 0, "maximum weight in kg")
	flags.Float64Var(&options.minVolume, "min-volume", 0, "minimum volume in m3")
	flags.Float64Var(&options.maxVolume, "max-volume", 0, "maximum volume in m3")
	flags.StringVar(&options.from, "from", "", "discarded on or after (YYYY-MM-DD)")
	flags.StringVar(&options.to, "to", "", "discarded on or before (YYYY-MM-DD)")
	flags.BoolVar(&options.onlyAllowed, "only-allowed", false, "only types the organization accepts")

	return cmd
}

func (c *Console) leaderboardCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "leaderboard individuals|organizations|neighborhood",
		Short:     "Rank actors by recycled score",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"individuals", "organizations", "neighborhood"},
		RunE: func(cmd *cobra.Command, args []string) error {
			board := args[0]
			c.show(cmd, func(ctx context.Context) (string, error) {
				switch board {
				case "individuals":
					entries, err := c.dashboard.TopIndividuals(ctx, limit)
					if err != nil {
						return "", err
					}

					return c.leaderboard(entries), nil
				case "organizations":
					entries, err := c.dashboard.TopOrganizations(ctx, limit)
					if err != nil {
						return "", err
					}

					return c.leaderboard(entries), nil
				default:
					actor, err := c.actor(ctx, entity.ActorIndividual)
					if err != nil {
						return "", err
					}
					result, err := c.dashboard.NeighborhoodLeaderboard(ctx, actor.Identifier, limit)
					if err != nil {
						return "", err
					}

					return c.localizer.Get("neighborhoodboard", result.Neighborhood) + "\n" + c.leaderboard(result.Entries), nil
				}
			})

			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of entries")

	return cmd
}

func (c *Console) feedCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:       "feed discards|recycled|reservations",
		Short:     "Show recent activity",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"discards", "recycled", "reservations"},
		RunE: func(cmd *cobra.Command, args []string) error {
			feeds := map[string]func(context.Context, int) ([]entity.DisposalRecord, error){
				"discards":     c.dashboard.RecentDiscards,
				"recycled":     c.dashboard.RecentRecycled,
				"reservations": c.dashboard.RecentReservations,
			}
			feed := feeds[args[0]]
			c.show(cmd, func(ctx context.Context) (string, error) {
				records, err := feed(ctx, limit)
				if err != nil {
					return "", err
				}

				return c.records(records), nil
			})

			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of entries")

	return cmd
}

func (c *Console) statsCommand() *cobra.Command {
	var rangeName string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics of the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statsRange, known := statsRanges[rangeName]
			c.show(cmd, func(ctx context.Context) (string, error) {
				if !known {
					return "", domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, rangeName)
				}
				actor, err := c.actor(ctx)
				if err != nil {
					return "", err
				}
				if actor.Kind == entity.ActorIndividual {
					stats, err := c.dashboard.IndividualStats(ctx, actor.Identifier, statsRange)
					if err != nil {
						return "", err
					}

					return c.individualStats(stats), nil
				}
				stats, err := c.dashboard.OrganizationStats(ctx, actor.Identifier, statsRange)
				if err != nil {
					return "", err
				}

				return c.organizationStats(stats), nil
			})

			return nil
		},
	}
	cmd.Flags().StringVar(&rangeName, "range", "all", "all, year or month")

	return cmd
}

func (c *Console) historyCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the items you discarded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.show(cmd, func(ctx context.Context) (string, error) {
				actor, err := c.actor(ctx, entity.ActorIndividual)
				if err != nil {
					return "", err
				}
				records, err := c.dashboard.IndividualHistory(ctx, actor.Identifier, days)
				if err != nil {
					return "", err
				}

				return c.records(records), nil
			})

			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "only the last n days, 0 for all")

	return cmd
}

func (c *Console) organizationItemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "items reserved|recycled",
		Short:     "List the items your organization holds or recycled",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"reserved", "recycled"},
		RunE: func(cmd *cobra.Command, args []string) error {
			list := c.dashboard.OrganizationReserved
			if args[0] == "recycled" {
				list = c.dashboard.OrganizationRecycled
			}
			c.show(cmd, func(ctx context.Context) (string, error) {
				actor, err := c.actor(ctx, entity.ActorOrganization)
				if err != nil {
					return "", err
				}
				records, err := list(ctx, actor.Identifier)
				if err != nil {
					return "", err
				}

				return c.records(records), nil
			})

			return nil
		},
	}
}

func (c *Console) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the profile of the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.show(cmd, func(ctx context.Context) (string, error) {
				actor, err := c.actor(ctx)
				if err != nil {
					return "", err
				}
				if actor.Kind == entity.ActorIndividual {
					profile, err := c.dashboard.IndividualProfile(ctx, actor.Identifier)
					if err != nil || profile == nil {
						return "", profileMissing(err)
					}

					return c.individualProfile(profile), nil
				}
				profile, err := c.dashboard.OrganizationProfile(ctx, actor.Identifier)
				if err != nil || profile == nil {
					return "", profileMissing(err)
				}

				return c.organizationProfile(profile), nil
			})

			return nil
		},
	}
}

// profileMissing turns an absent profile of a valid session into notloggedin.
func profileMissing(err error) error {
	if err != nil {
		return err
	}

	return domainerrors.NewValidationFailure(domainerrors.KeyNotLoggedIn)
}

func (c *Console) typesCommand() *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List disposal types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.show(cmd, func(ctx context.Context) (string, error) {
				var (
					types []entity.DisposalType
					err   error
				)
				if mine {
					actor, actorErr := c.actor(ctx, entity.ActorOrganization)
					if actorErr != nil {
						return "", actorErr
					}
					types, err = c.dashboard.OrganizationTypes(ctx, actor.Identifier)
				} else {
					types, err = c.dashboard.DisposalTypes(ctx)
				}
				if err != nil {
					return "", err
				}

				return c.disposalTypes(types), nil
			})

			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only the types your organization accepts")

	return cmd
}

func (c *Console) localitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localities",
		Short: "Browse address parts to find their ids",
	}

	provincesCmd := &cobra.Command{
		Use:  "provinces",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.show(cmd, func(ctx context.Context) (string, error) {
				options, err := c.addresses.Provinces(ctx)
				if err != nil {
					return "", err
				}

				return c.localities(options), nil
			})

			return nil
		},
	}

	children := []struct {
		use    string
		lookup func(context.Context, int64) ([]entity.LocalityOption, error)
	}{
		{"districts <province-id>", c.addresses.Districts},
		{"neighborhoods <district-id>", c.addresses.Neighborhoods},
		{"streets <neighborhood-id>", c.addresses.Streets},
	}
	cmd.AddCommand(provincesCmd)
	for _, child := range children {
		lookup := child.lookup
		cmd.AddCommand(&cobra.Command{
			Use:  child.use,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				parentID, err := strconv.ParseInt(args[0], 10, 64)
				c.show(cmd, func(ctx context.Context) (string, error) {
					if err != nil {
						return "", domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, args[0])
					}
					options, err := lookup(ctx, parentID)
					if err != nil {
						return "", err
					}

					return c.localities(options), nil
				})

				return nil
			},
		})
	}

	return cmd
}
