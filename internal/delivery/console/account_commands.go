package console

import (
	"context"
	"strings"

	"greenhood/internal/domain/entity"
	"greenhood/internal/usecase"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addAddressFlags(flags *pflag.FlagSet, tuple *entity.AddressTuple) {
	flags.Int64Var(&tuple.ProvinceID, "province", 0, "province id")
	flags.Int64Var(&tuple.DistrictID, "district", 0, "district id")
	flags.Int64Var(&tuple.NeighborhoodID, "neighborhood", 0, "neighborhood id")
	flags.Int64Var(&tuple.StreetID, "street", 0, "street id")
	flags.IntVar(&tuple.BuildingNo, "building", 0, "building number")
	flags.IntVar(&tuple.FloorNo, "floor", 0, "floor number")
	flags.IntVar(&tuple.DoorNo, "door", 0, "door number")
}

// individualFlags binds the editable individual fields. Sex is read as text and normalized.
func individualFlags(flags *pflag.FlagSet, details *usecase.IndividualDetails, sex *string) {
	flags.StringVar(&details.NationalID, "nid", "", "national id")
	flags.StringVar(&details.FirstName, "first", "", "first name")
	flags.StringVar(&details.MiddleName, "middle", "", "middle name")
	flags.StringVar(&details.LastName, "last", "", "last name")
	flags.StringVar(&details.BirthDate, "birth", "", "birth date (YYYY-MM-DD)")
	flags.StringVar(&details.Email, "email", "", "e-mail address")
	flags.StringVar(&details.Phone, "phone", "", "phone number with country code")
	flags.StringVar(sex, "sex", "", "M or F")
	addAddressFlags(flags, &details.Address)
}

func organizationFlags(flags *pflag.FlagSet, details *usecase.OrganizationDetails, typeIDs *[]int) {
	flags.StringVar(&details.TaxID, "tax", "", "tax number")
	flags.StringVar(&details.Name, "name", "", "organization name")
	flags.StringVar(&details.Phone, "phone", "", "phone number with country code")
	flags.StringVar(&details.Fax, "fax", "", "fax number (ddd-ddd-dddd)")
	flags.BoolVar(&details.IsGovernment, "government", false, "public body")
	flags.IntSliceVar(typeIDs, "types", nil, "accepted disposal type ids")
	addAddressFlags(flags, &details.Address)
}

func toInt64s(values []int) []int64 {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		out = append(out, int64(v))
	}

	return out
}

func (c *Console) registerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
	}

	var individual usecase.RegisterIndividualInput
	var individualSex string
	individualCmd := &cobra.Command{
		Use:  "individual",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			individual.Sex = entity.Sex(strings.ToUpper(individualSex))
			input := individual
			c.issue(cmd, func(ctx context.Context) error {
				if _, err := c.accounts.RegisterIndividual(ctx, &input); err != nil {
					return err
				}
				c.runner.Inform("registersuccess")

				return nil
			})

			return nil
		},
	}
	individualFlags(individualCmd.Flags(), &individual.IndividualDetails, &individualSex)
	individualCmd.Flags().StringVar(&individual.Password, "password", "", "password")

	var organization usecase.RegisterOrganizationInput
	var typeIDs []int
	organizationCmd := &cobra.Command{
		Use:  "organization",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			organization.SupportedTypeIDs = toInt64s(typeIDs)
			input := organization
			c.issue(cmd, func(ctx context.Context) error {
				if _, err := c.accounts.RegisterOrganization(ctx, &input); err != nil {
					return err
				}
				c.runner.Inform("registersuccess")

				return nil
			})

			return nil
		},
	}
	organizationFlags(organizationCmd.Flags(), &organization.OrganizationDetails, &typeIDs)
	organizationCmd.Flags().StringVar(&organization.Password, "password", "", "password")

	cmd.AddCommand(individualCmd, organizationCmd)

	return cmd
}

func (c *Console) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "login individual|organization <identifier> <password>",
		Short:     "Log in with a national id or tax number",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{string(entity.ActorIndividual), string(entity.ActorOrganization)},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.LoginInput{Kind: entity.ActorKind(args[0]), Identifier: args[1], Password: args[2]}
			c.issue(cmd, func(ctx context.Context) error {
				session, err := c.accounts.Authenticate(ctx, &input)
				if err != nil {
					return err
				}
				c.setToken(session.Token)
				c.runner.Inform("loginsuccess", session.Actor.DisplayName)

				return nil
			})

			return nil
		},
	}
}

func (c *Console) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:  "logout",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.issue(cmd, func(ctx context.Context) error {
				if _, err := c.actor(ctx); err != nil {
					return err
				}
				c.setToken("")
				c.accounts.Logout(ctx)
				c.runner.Inform("logoutsuccess")

				return nil
			})

			return nil
		},
	}
}

func (c *Console) passwordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change or reset a password",
	}

	changeCmd := &cobra.Command{
		Use:  "change <old> <new>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPassword, newPassword := args[0], args[1]
			c.issue(cmd, func(ctx context.Context) error {
				actor, err := c.actor(ctx)
				if err != nil {
					return err
				}
				if err := c.accounts.ChangePassword(ctx, *actor, oldPassword, newPassword); err != nil {
					return err
				}
				c.runner.Inform("passwordchanged")

				return nil
			})

			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:  "reset <email>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			c.issue(cmd, func(ctx context.Context) error {
				if err := c.accounts.ResetPasswordByEmail(ctx, email); err != nil {
					return err
				}
				c.runner.Inform("resetmailsent")

				return nil
			})

			return nil
		},
	}

	cmd.AddCommand(changeCmd, resetCmd)

	return cmd
}

func (c *Console) updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the details of the logged-in account",
	}

	var individual usecase.IndividualDetails
	var individualSex string
	individualCmd := &cobra.Command{
		Use:  "individual",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			individual.Sex = entity.Sex(strings.ToUpper(individualSex))
			details := individual
			c.issue(cmd, func(ctx context.Context) error {
				actor, err := c.actor(ctx, entity.ActorIndividual)
				if err != nil {
					return err
				}
				input := usecase.UpdateIndividualInput{ID: actor.ID, IndividualDetails: details}
				if _, err := c.accounts.UpdateIndividual(ctx, &input); err != nil {
					return err
				}
				c.runner.Inform("profileupdated")

				return nil
			})

			return nil
		},
	}
	individualFlags(individualCmd.Flags(), &individual, &individualSex)

	var organization usecase.OrganizationDetails
	var typeIDs []int
	organizationCmd := &cobra.Command{
		Use:  "organization",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			organization.SupportedTypeIDs = toInt64s(typeIDs)
			details := organization
			c.issue(cmd, func(ctx context.Context) error {
				actor, err := c.actor(ctx, entity.ActorOrganization)
				if err != nil {
					return err
				}
				input := usecase.UpdateOrganizationInput{ID: actor.ID, OrganizationDetails: details}
				if _, err := c.accounts.UpdateOrganization(ctx, &input); err != nil {
					return err
				}
				c.runner.Inform("profileupdated")

				return nil
			})

			return nil
		},
	}
	organizationFlags(organizationCmd.Flags(), &organization, &typeIDs)

	cmd.AddCommand(individualCmd, organizationCmd)

	return cmd
}

func (c *Console) accountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the logged-in account",
	}

	deleteCmd := &cobra.Command{
		Use:  "delete",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.issue(cmd, func(ctx context.Context) error {
				actor, err := c.actor(ctx)
				if err != nil {
					return err
				}
				if actor.Kind == entity.ActorIndividual {
					err = c.accounts.DeleteIndividual(ctx, actor.Identifier)
				} else {
					err = c.accounts.DeleteOrganization(ctx, actor.Identifier)
				}
				if err != nil {
					return err
				}
				c.setToken("")
				c.accounts.Logout(ctx)
				c.runner.Inform("accountdeleted")

				return nil
			})

			return nil
		},
	}

	cmd.AddCommand(deleteCmd)

	return cmd
}
