package console

import (
	"context"
	"strconv"

	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/entity"
	"greenhood/internal/usecase"

	"github.com/spf13/cobra"
)

// itemArg parses the single item id argument.
func itemArg(args []string) (int64, error) {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || itemID <= 0 {
		return 0, domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, args[0])
	}

	return itemID, nil
}

func (c *Console) discardCommand() *cobra.Command {
	var input usecase.DiscardInput
	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Record a batch of one material",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			discard := input
			c.issue(cmd, func(ctx context.Context) error {
				actor, err := c.actor(ctx, entity.ActorIndividual)
				if err != nil {
					return err
				}
				discard.IndividualID = actor.ID
				item, err := c.disposals.Discard(ctx, &discard)
				if err != nil {
					return err
				}
				c.runner.Inform("itemdiscarded", item.ID)

				return nil
			})

			return nil
		},
	}
	cmd.Flags().Int64Var(&input.TypeID, "type", 0, "disposal type id")
	cmd.Flags().Float64Var(&input.Weight, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&input.Volume, "volume", 0, "volume in m3")

	return cmd
}

func (c *Console) itemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage discarded items",
	}

	deleteCmd := &cobra.Command{
		Use:  "delete <item-id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.issue(cmd, func(ctx context.Context) error {
				itemID, err := itemArg(args)
				if err != nil {
					return err
				}
				actor, err := c.actor(ctx, entity.ActorIndividual)
				if err != nil {
					return err
				}
				if err := c.disposals.DeleteItem(ctx, actor.ID, itemID); err != nil {
					return err
				}
				c.runner.Inform("itemdeleted")

				return nil
			})

			return nil
		},
	}

	cmd.AddCommand(deleteCmd)

	return cmd
}

// organizationItemCommand builds a command running action on one item for the logged-in organization.
func (c *Console) organizationItemCommand(use, short, success string, action func(ctx context.Context, actor *entity.Actor, itemID int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.issue(cmd, func(ctx context.Context) error {
				itemID, err := itemArg(args)
				if err != nil {
					return err
				}
				actor, err := c.actor(ctx, entity.ActorOrganization)
				if err != nil {
					return err
				}
				if err := action(ctx, actor, itemID); err != nil {
					return err
				}
				c.runner.Inform(success)

				return nil
			})

			return nil
		},
	}
}

func (c *Console) reserveCommand() *cobra.Command {
	return c.organizationItemCommand("reserve", "Claim an available item", "reservationsuccess",
		func(ctx context.Context, actor *entity.Actor, itemID int64) error {
			_, err := c.disposals.Reserve(ctx, actor.Identifier, itemID)

			return err
		})
}

func (c *Console) cancelCommand() *cobra.Command {
	return c.organizationItemCommand("cancel", "Release a reserved item", "cancelsuccess",
		func(ctx context.Context, _ *entity.Actor, itemID int64) error {
			return c.disposals.CancelReservation(ctx, itemID)
		})
}

func (c *Console) recycleCommand() *cobra.Command {
	return c.organizationItemCommand("recycle", "Complete recycling of a reserved item", "recyclesuccess",
		func(ctx context.Context, _ *entity.Actor, itemID int64) error {
			return c.disposals.CompleteRecycling(ctx, itemID)
		})
}
